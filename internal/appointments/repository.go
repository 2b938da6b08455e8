package appointments

import (
	"context"
	"time"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/slots"
)

// Repository persists appointments. Create and Transition must enforce slot
// uniqueness atomically and report violations as ErrSlotConflict.
type Repository interface {
	slots.BookedSource

	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)

	// Transition applies changes only if the row's status is one of from and,
	// when changes.Expect is set, the row is still on that schedule.
	// It returns errStale when nothing matched.
	Transition(ctx context.Context, id string, from []models.AppointmentStatus, changes Changes) error

	List(ctx context.Context, filter Filter) ([]models.Appointment, error)
	ListOpen(ctx context.Context) ([]models.Appointment, error)
	ListReminderCandidates(ctx context.Context, fromDay time.Time) ([]models.Appointment, error)

	// ClaimReminder flips reminder_sent from false to true and reports
	// whether this call did the flip.
	ClaimReminder(ctx context.Context, id string) (bool, error)

	CountForDay(ctx context.Context, day time.Time) (int64, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

// Filter narrows List. Empty fields are ignored.
type Filter struct {
	PatientID string
	DoctorID  string
	Statuses  []models.AppointmentStatus
	FromDay   *time.Time
}

// Schedule is the date and slot a transition expects the row to still have.
type Schedule struct {
	Date      time.Time
	TimeValue string
}

// Changes is the column set written by one transition.
type Changes struct {
	Expect        *Schedule
	Status        models.AppointmentStatus
	Date          *time.Time
	Time          string
	TimeValue     string
	SlotKey       *string
	ClearSlot     bool
	Reason        *string
	ApprovedAt    *time.Time
	RejectedAt    *time.Time
	ResetReminder bool
}

func (c Changes) columns() map[string]any {
	cols := map[string]any{"status": c.Status}
	if c.Date != nil {
		cols["date"] = *c.Date
		cols["time"] = c.Time
		cols["time_value"] = c.TimeValue
	}
	if c.ClearSlot {
		cols["slot_key"] = nil
	} else if c.SlotKey != nil {
		cols["slot_key"] = *c.SlotKey
	}
	if c.Reason != nil {
		cols["reason"] = *c.Reason
	}
	if c.ApprovedAt != nil {
		cols["approved_by_doctor_at"] = *c.ApprovedAt
	}
	if c.RejectedAt != nil {
		cols["rejected_by_doctor_at"] = *c.RejectedAt
	}
	if c.ResetReminder {
		cols["reminder_sent"] = false
	}
	return cols
}

// Matches reports whether a is still on the expected schedule.
func (s *Schedule) Matches(a *models.Appointment) bool {
	if s == nil {
		return true
	}
	return a.Date.Format(time.DateOnly) == s.Date.Format(time.DateOnly) && a.TimeValue == s.TimeValue
}

// Apply writes the changes onto an in-memory appointment.
func (c Changes) Apply(a *models.Appointment) {
	a.Status = c.Status
	if c.Date != nil {
		a.Date = *c.Date
		a.Time = c.Time
		a.TimeValue = c.TimeValue
	}
	if c.ClearSlot {
		a.SlotKey = nil
	} else if c.SlotKey != nil {
		key := *c.SlotKey
		a.SlotKey = &key
	}
	if c.Reason != nil {
		a.Reason = *c.Reason
	}
	if c.ApprovedAt != nil {
		t := *c.ApprovedAt
		a.ApprovedByDoctorAt = &t
	}
	if c.RejectedAt != nil {
		t := *c.RejectedAt
		a.RejectedByDoctorAt = &t
	}
	if c.ResetReminder {
		a.ReminderSent = false
	}
}
