package models

import (
	"time"
)

// MedicalRecord is one dated note in a patient's medical history, written
// by the doctor who saw them.
type MedicalRecord struct {
	BaseModel
	PatientID  string    `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID   string    `gorm:"size:36;index" json:"doctorId"`
	RecordDate time.Time `json:"date"`
	Notes      string    `gorm:"type:text;not null" json:"notes"`
}
