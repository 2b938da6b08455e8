package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/appointments"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/slots"
)

type mockAppointments struct {
	mock.Mock
}

func (m *mockAppointments) Slots(ctx context.Context, date time.Time) ([]slots.Availability, error) {
	args := m.Called(ctx, date)
	v, _ := args.Get(0).([]slots.Availability)
	return v, args.Error(1)
}

func (m *mockAppointments) Book(ctx context.Context, actor models.Actor, in appointments.BookInput) (*models.Appointment, error) {
	args := m.Called(ctx, actor, in)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) Approve(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) Reject(ctx context.Context, actor models.Actor, id, reason string) (*models.Appointment, error) {
	args := m.Called(ctx, actor, id, reason)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) Reschedule(ctx context.Context, actor models.Actor, id string, date time.Time, timeValue string) (*models.Appointment, error) {
	args := m.Called(ctx, actor, id, date, timeValue)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) Cancel(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) ApplyAction(ctx context.Context, token string) (*models.Appointment, appointments.Action, error) {
	args := m.Called(ctx, token)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Get(1).(appointments.Action), args.Error(2)
}

func (m *mockAppointments) Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) List(ctx context.Context, actor models.Actor) ([]models.Appointment, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).([]models.Appointment)
	return v, args.Error(1)
}

func (m *mockAppointments) History(ctx context.Context, actor models.Actor) ([]models.Appointment, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).([]models.Appointment)
	return v, args.Error(1)
}

func appointmentRouter(svc *mockAppointments) http.Handler {
	h := NewAppointmentHandler(svc)
	r, private := newTestRouter()
	r.GET("/action/approve", h.HandleAction)
	private.GET("/slots", h.GetSlots)
	private.POST("/appointments", h.CreateAppointment)
	private.PATCH("/appointments/:id/reject", h.RejectAppointment)
	private.PUT("/appointments/:id/reschedule", h.RescheduleAppointment)
	private.DELETE("/appointments/:id", h.CancelAppointment)
	return r
}

func TestGetSlots(t *testing.T) {
	svc := &mockAppointments{}
	r := appointmentRouter(svc)

	w, _ := do(t, r, patient, http.MethodGet, "/slots?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	svc.On("Slots", mock.Anything, day).Return([]slots.Availability{{IsBooked: true}}, nil).Once()
	w, body := do(t, r, patient, http.MethodGet, "/slots?date=2026-03-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), `"date":"2026-03-03"`)
	assert.Contains(t, string(body.Data), `"isBooked":true`)
	svc.AssertExpectations(t)
}

func TestCreateAppointment(t *testing.T) {
	svc := &mockAppointments{}
	r := appointmentRouter(svc)
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)

	t.Run("missing time", func(t *testing.T) {
		w, body := do(t, r, patient, http.MethodPost, "/appointments", map[string]string{"date": "2026-03-03"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, body.Error)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w, _ := do(t, r, models.Actor{}, http.MethodPost, "/appointments", map[string]string{"date": "2026-03-03", "time": "09:00"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("slot taken maps to conflict", func(t *testing.T) {
		in := appointments.BookInput{Date: day, TimeValue: "09:00"}
		svc.On("Book", mock.Anything, patient, in).Return(nil, fmt.Errorf("book: %w", appointments.ErrSlotConflict)).Once()

		w, body := do(t, r, patient, http.MethodPost, "/appointments", map[string]string{"date": "2026-03-03", "time": "09:00"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "SLOT_CONFLICT", body.Code)
	})

	t.Run("doctor books walk-in", func(t *testing.T) {
		in := appointments.BookInput{PatientName: "Walk In", Date: day, TimeValue: "10:00", Status: models.StatusApproved}
		svc.On("Book", mock.Anything, doctor, in).Return(&models.Appointment{BaseModel: models.BaseModel{ID: "a-1"}}, nil).Once()

		w, body := do(t, r, doctor, http.MethodPost, "/appointments", map[string]any{
			"date": "2026-03-03", "time": "10:00", "patientName": "Walk In", "status": "approved",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(body.Data), `"id":"a-1"`)
	})

	svc.AssertExpectations(t)
}

func TestRejectWithoutBody(t *testing.T) {
	svc := &mockAppointments{}
	r := appointmentRouter(svc)
	svc.On("Reject", mock.Anything, doctor, "a-1", "").Return(&models.Appointment{Status: models.StatusRejected}, nil).Once()

	w, _ := do(t, r, doctor, http.MethodPatch, "/appointments/a-1/reject", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCancelTooClose(t *testing.T) {
	svc := &mockAppointments{}
	r := appointmentRouter(svc)
	svc.On("Cancel", mock.Anything, patient, "a-1").Return(nil, appointments.ErrWindowTooClose).Once()

	w, body := do(t, r, patient, http.MethodDelete, "/appointments/a-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "WINDOW_TOO_CLOSE", body.Code)
}

func TestHandleAction(t *testing.T) {
	booked := &models.Appointment{PatientName: "Asha", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local), Time: "09:00 AM"}

	tests := []struct {
		name     string
		query    string
		setup    func(*mockAppointments)
		wantCode int
		wantText string
	}{
		{
			name:     "missing token",
			query:    "",
			wantCode: http.StatusBadRequest,
			wantText: "Invalid Request",
		},
		{
			name:  "approved",
			query: "?token=good",
			setup: func(m *mockAppointments) {
				m.On("ApplyAction", mock.Anything, "good").Return(booked, appointments.ActionApprove, nil)
			},
			wantCode: http.StatusOK,
			wantText: "Approved Successfully!",
		},
		{
			name:  "rejected",
			query: "?token=no",
			setup: func(m *mockAppointments) {
				m.On("ApplyAction", mock.Anything, "no").Return(booked, appointments.ActionReject, nil)
			},
			wantCode: http.StatusOK,
			wantText: "has been rejected",
		},
		{
			name:  "already processed",
			query: "?token=twice",
			setup: func(m *mockAppointments) {
				m.On("ApplyAction", mock.Anything, "twice").Return(nil, appointments.ActionApprove, appointments.ErrInvalidTransition)
			},
			wantCode: http.StatusConflict,
			wantText: "Already Processed",
		},
		{
			name:  "bad token",
			query: "?token=forged",
			setup: func(m *mockAppointments) {
				m.On("ApplyAction", mock.Anything, "forged").Return(nil, appointments.Action(""), appointments.ErrInvalidActionToken)
			},
			wantCode: http.StatusBadRequest,
			wantText: "Invalid or expired link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppointments{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			w, _ := do(t, appointmentRouter(svc), models.Actor{}, http.MethodGet, "/action/approve"+tt.query, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), tt.wantText)
			svc.AssertExpectations(t)
		})
	}
}
