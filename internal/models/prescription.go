package models

import (
	"time"
)

// FeedbackStatus is the patient's own assessment after a prescription.
type FeedbackStatus string

const (
	FeedbackBetter FeedbackStatus = "Better"
	FeedbackSame   FeedbackStatus = "Same"
	FeedbackWorse  FeedbackStatus = "Worse"
)

// ProgressFeedback is stored inline on the prescription row.
type ProgressFeedback struct {
	Status        *FeedbackStatus `gorm:"size:10" json:"status"`
	ConditionName string          `gorm:"size:200" json:"conditionName,omitempty"`
	Comments      string          `gorm:"type:text" json:"comments,omitempty"`
	AISummary     string          `gorm:"column:ai_summary;type:text" json:"aiSummary,omitempty"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// Prescription is issued by a doctor. Every line's quantity has been reserved
// from stock by the time the row is committed.
type Prescription struct {
	BaseModel
	PatientID     string             `gorm:"size:36;index;not null" json:"patientId"`
	PatientName   string             `gorm:"size:200" json:"patientName"`
	DoctorID      string             `gorm:"size:36;index;not null" json:"doctorId"`
	AppointmentID *string            `gorm:"size:36;index" json:"appointmentId,omitempty"`
	Diagnosis     string             `gorm:"type:text" json:"diagnosis"`
	Medicines     []PrescriptionLine `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE" json:"medicines"`
	PDFPath       string             `gorm:"size:255" json:"pdfPath,omitempty"`
	Feedback      ProgressFeedback   `gorm:"embedded;embeddedPrefix:feedback_" json:"progressFeedback"`
}

// PrescriptionLine is one medicine on a prescription, in display order.
type PrescriptionLine struct {
	BaseModel
	PrescriptionID string `gorm:"size:36;index;not null" json:"-"`
	Position       int    `json:"-"`
	MedicineID     string `gorm:"size:36;index" json:"medicineId"`
	MedicineName   string `gorm:"size:200" json:"medicineName"`
	Dosage         string `gorm:"size:100" json:"dosage"`
	Duration       int    `json:"duration"`
	Instructions   string `gorm:"size:255" json:"instructions"`
	Qty            int    `json:"qty"`
}
