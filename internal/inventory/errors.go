package inventory

import "github.com/SamarthKalavadia/hospital-management-system/internal/apperr"

var (
	ErrMedicineNotFound  = apperr.NotFound("MEDICINE_NOT_FOUND", "medicine not found")
	ErrInsufficientStock = apperr.Conflict("INSUFFICIENT_STOCK", "insufficient stock")
	ErrInvalidQuantity   = apperr.Validation("INVALID_QUANTITY", "quantity must be positive")
	ErrDuplicateMedicine = apperr.Conflict("DUPLICATE_MEDICINE", "a medicine with this name already exists")
	ErrInvalidMedicine   = apperr.Validation("INVALID_MEDICINE", "medicine details are invalid")
)
