// Package notify delivers structured notifications through a swappable
// transport. Callers describe what happened; adapters decide presentation.
package notify

import (
	"context"
)

// Kind names the event a notification reports.
type Kind string

const (
	KindBookingConfirmation    Kind = "booking_confirmation"
	KindAppointmentRequest     Kind = "appointment_request"
	KindAppointmentApproved    Kind = "appointment_approved"
	KindAppointmentRejected    Kind = "appointment_rejected"
	KindAppointmentRescheduled Kind = "appointment_rescheduled"
	KindAppointmentCancelled   Kind = "appointment_cancelled"
	KindAppointmentReminder    Kind = "appointment_reminder"
	KindPrescriptionDelivery   Kind = "prescription_delivery"
)

// Attachment is a file sent along with a notification.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

// Message is one notification for one recipient.
type Message struct {
	Recipient   string         `json:"recipient"`
	Kind        Kind           `json:"kind"`
	Data        map[string]any `json:"data"`
	Attachments []Attachment   `json:"attachments,omitempty"`
}

// Notifier performs a single delivery attempt.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
