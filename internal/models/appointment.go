package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusRejected  AppointmentStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// HoldsSlot reports whether an appointment in this status occupies its slot.
// Only cancellation gives a slot back.
func (s AppointmentStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

// OpenStatuses are the non-terminal statuses.
var OpenStatuses = []AppointmentStatus{StatusPending, StatusApproved, StatusConfirmed}

// Appointment is a booking of one clinic slot on one calendar day.
// SlotKey is "YYYY-MM-DD HH:mm" while the appointment holds its slot and NULL
// once it is cancelled; its unique index is the double-booking guard.
type Appointment struct {
	BaseModel
	PatientID          string            `gorm:"size:36;index" json:"patientId"`
	PatientName        string            `gorm:"size:200" json:"patientName"`
	PatientPhone       string            `gorm:"size:30" json:"patientPhone"`
	DoctorID           string            `gorm:"size:36;index" json:"doctorId"`
	Date               time.Time         `gorm:"type:date;index" json:"date"`
	Time               string            `gorm:"size:10" json:"time"`
	TimeValue          string            `gorm:"size:5" json:"timeValue"`
	SlotKey            *string           `gorm:"size:16;uniqueIndex" json:"-"`
	Status             AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Reason             string            `gorm:"size:500" json:"reason,omitempty"`
	ReminderSent       bool              `gorm:"default:false" json:"reminderSent"`
	ApprovedByDoctorAt *time.Time        `json:"approvedByDoctorAt,omitempty"`
	RejectedByDoctorAt *time.Time        `json:"rejectedByDoctorAt,omitempty"`
}
