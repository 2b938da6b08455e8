package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/appointments"
	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/slots"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// AppointmentService is the state machine the handler drives.
type AppointmentService interface {
	Slots(ctx context.Context, date time.Time) ([]slots.Availability, error)
	Book(ctx context.Context, actor models.Actor, in appointments.BookInput) (*models.Appointment, error)
	Approve(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	Reject(ctx context.Context, actor models.Actor, id, reason string) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor models.Actor, id string, date time.Time, timeValue string) (*models.Appointment, error)
	Cancel(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	ApplyAction(ctx context.Context, token string) (*models.Appointment, appointments.Action, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	List(ctx context.Context, actor models.Actor) ([]models.Appointment, error)
	History(ctx context.Context, actor models.Actor) ([]models.Appointment, error)
}

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	svc AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// GetSlots lists the day's slots with their booking state.
func (h *AppointmentHandler) GetSlots(c *gin.Context) {
	date, ok := parseDay(c.Query("date"))
	if !ok {
		utils.BadRequest(c, "date query parameter must be YYYY-MM-DD")
		return
	}

	view, err := h.svc.Slots(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Slots fetched successfully", gin.H{
		"date":   date.Format(dateLayout),
		"closed": slots.IsClosedDay(date),
		"slots":  view,
	})
}

// CreateAppointmentRequest represents the request body for booking.
type CreateAppointmentRequest struct {
	Date         string                   `json:"date" binding:"required"`
	Time         string                   `json:"time" binding:"required"`
	PatientID    string                   `json:"patientId"`
	PatientName  string                   `json:"patientName"`
	PatientPhone string                   `json:"patientPhone"`
	DoctorID     string                   `json:"doctorId"`
	Status       models.AppointmentStatus `json:"status"`
}

// CreateAppointment books a slot. Patients book for themselves; staff may
// book for a registered patient or a walk-in by name.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	date, ok := parseDay(req.Date)
	if !ok {
		utils.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	a, err := h.svc.Book(c.Request.Context(), actor, appointments.BookInput{
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		DoctorID:     req.DoctorID,
		Date:         date,
		TimeValue:    req.Time,
		Status:       req.Status,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", a)
}

// GetAppointmentsForUser lists the caller's appointments.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", list)
}

// GetHistory lists the caller's finished appointments.
func (h *AppointmentHandler) GetHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	list, err := h.svc.History(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment history fetched successfully", list)
}

// GetAppointmentByID returns one appointment the caller may see.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", a)
}

// ApproveAppointment approves a pending appointment.
func (h *AppointmentHandler) ApproveAppointment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	a, err := h.svc.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment approved", a)
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RejectAppointment rejects a pending appointment. The body is optional.
func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req RejectAppointmentRequest
	if c.Request.ContentLength > 0 && !utils.BindAndValidate(c, &req) {
		return
	}
	a, err := h.svc.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment rejected", a)
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// RescheduleAppointment moves an appointment to another slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	date, ok := parseDay(req.Date)
	if !ok {
		utils.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	a, err := h.svc.Reschedule(c.Request.Context(), actor, c.Param("id"), date, req.Time)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment rescheduled and sent for approval", a)
}

// CancelAppointment cancels the caller's own appointment.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	a, err := h.svc.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled", a)
}

// HandleAction executes an emailed approve/reject link and answers with a
// small HTML page, since the doctor opens it in a browser.
func (h *AppointmentHandler) HandleAction(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		actionPage(c, http.StatusBadRequest, "Invalid Request", "This link is missing its token.")
		return
	}

	a, action, err := h.svc.ApplyAction(c.Request.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, appointments.ErrInvalidTransition):
		actionPage(c, http.StatusConflict, "Already Processed", "This appointment has already been handled and cannot be changed from this link.")
		return
	case apperr.From(err).Kind == apperr.KindInternal:
		utils.RespondError(c, err)
		return
	default:
		actionPage(c, utils.StatusFor(apperr.From(err).Kind), "Link Not Valid", "Invalid or expired link. Please use the Doctor Dashboard.")
		return
	}

	when := a.Date.Format("02 Jan 2006") + " at " + a.Time
	if action == appointments.ActionApprove {
		actionPage(c, http.StatusOK, "Approved Successfully!", fmt.Sprintf("The appointment for %s on %s has been confirmed.", a.PatientName, when))
		return
	}
	actionPage(c, http.StatusOK, "Appointment Rejected", fmt.Sprintf("The appointment for %s on %s has been rejected.", a.PatientName, when))
}

func actionPage(c *gin.Context, status int, title, body string) {
	page := fmt.Sprintf(`<!doctype html><html><body style="font-family:sans-serif;text-align:center;padding:50px">`+
		`<h1>%s</h1><p>%s</p></body></html>`, html.EscapeString(title), html.EscapeString(body))
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}
