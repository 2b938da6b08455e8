package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedSentinelStillMatches(t *testing.T) {
	sentinel := Conflict("INSUFFICIENT_STOCK", "insufficient stock")
	err := fmt.Errorf("%w: Triphala Churna", sentinel)

	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, "insufficient stock: Triphala Churna", err.Error())

	got := From(err)
	assert.Equal(t, KindConflict, got.Kind)
	assert.Equal(t, "INSUFFICIENT_STOCK", got.Code)
}

func TestIsComparesCodesOnly(t *testing.T) {
	a := NotFound("MEDICINE_NOT_FOUND", "medicine not found")
	b := &Error{Kind: KindNotFound, Code: "MEDICINE_NOT_FOUND", Message: "other text"}
	c := NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")

	assert.True(t, errors.Is(b, a))
	assert.False(t, errors.Is(c, a))
}

func TestFromUnclassified(t *testing.T) {
	got := From(errors.New("connection refused"))
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "INTERNAL", got.Code)
	assert.Nil(t, From(nil))
}
