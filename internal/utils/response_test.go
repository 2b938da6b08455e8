package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conflict := apperr.Conflict("SLOT_CONFLICT", "slot is already booked")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"validation", apperr.Validation("CLOSED_DAY", "clinic is closed"), http.StatusBadRequest, "CLOSED_DAY", "clinic is closed"},
		{"wrapped conflict", fmt.Errorf("%w: 10:00 AM", conflict), http.StatusConflict, "SLOT_CONFLICT", "slot is already booked: 10:00 AM"},
		{"not found", apperr.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found"), http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "appointment not found"},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "not allowed to perform this operation"},
		{"unclassified", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ResponseData
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
