package prescriptions

import "github.com/SamarthKalavadia/hospital-management-system/internal/apperr"

var (
	ErrNotFound            = apperr.NotFound("PRESCRIPTION_NOT_FOUND", "prescription not found")
	ErrInvalidPrescription = apperr.Validation("INVALID_PRESCRIPTION", "prescription is invalid")
	ErrInvalidFeedback     = apperr.Validation("INVALID_FEEDBACK", "feedback is invalid")
	ErrNoRecipient         = apperr.Validation("NO_RECIPIENT", "patient has no email address")
	ErrDeliveryFailed      = apperr.New(apperr.KindInternal, "DELIVERY_FAILED", "prescription could not be delivered")
)
