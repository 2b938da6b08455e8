package appointments

import "github.com/SamarthKalavadia/hospital-management-system/internal/apperr"

var (
	ErrSlotConflict       = apperr.Conflict("SLOT_CONFLICT", "slot already booked")
	ErrClosedDay          = apperr.Validation("CLOSED_DAY", "clinic is closed on this day")
	ErrUnknownSlot        = apperr.Validation("UNKNOWN_SLOT", "time is not a bookable slot")
	ErrInvalidTransition  = apperr.Conflict("INVALID_TRANSITION", "appointment cannot make this transition")
	ErrWindowTooClose     = apperr.Conflict("WINDOW_TOO_CLOSE", "appointment is too close to change")
	ErrAlreadyPast        = apperr.Conflict("ALREADY_PAST", "appointment time has already passed")
	ErrNotFound           = apperr.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")
	ErrInvalidActionToken = apperr.Validation("INVALID_ACTION_TOKEN", "action link is invalid or expired")
	ErrMissingPatient     = apperr.Validation("INVALID_APPOINTMENT", "patient details are required")

	// errStale is returned by Repository.Transition when no row matched the
	// expected current status.
	errStale = apperr.Conflict("STALE_APPOINTMENT", "appointment changed concurrently")
)
