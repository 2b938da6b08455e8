package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// MedicalHistory stores the notes on a patient's chart.
type MedicalHistory interface {
	Add(ctx context.Context, patientID, doctorID, notes string) (*models.MedicalRecord, error)
	ListForPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error)
}

// MedicalRecordHandler serves a patient's chart: their profile and the
// history notes doctors have added.
type MedicalRecordHandler struct {
	users   Accounts
	history MedicalHistory
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(users Accounts, history MedicalHistory) *MedicalRecordHandler {
	return &MedicalRecordHandler{users: users, history: history}
}

// PatientDetail is a patient profile with its medical history.
type PatientDetail struct {
	models.UserSanitized
	MedicalHistory []models.MedicalRecord `json:"medicalHistory"`
}

// AddHistoryRequest represents the request body for a history note.
type AddHistoryRequest struct {
	Notes string `json:"notes" binding:"required"`
}

func (h *MedicalRecordHandler) patient(ctx context.Context, id string) (*models.User, error) {
	u, err := h.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RolePatient {
		return nil, fmt.Errorf("%w: %s is not a patient", directory.ErrUserNotFound, id)
	}
	return u, nil
}

// GetPatient returns a patient's profile and history. Staff may read any
// chart, a patient only their own.
func (h *MedicalRecordHandler) GetPatient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !actor.IsStaff() && actor.ID != id {
		utils.RespondError(c, apperr.ErrForbidden)
		return
	}

	ctx := c.Request.Context()
	u, err := h.patient(ctx, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	history, err := h.history.ListForPatient(ctx, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Patient fetched successfully", PatientDetail{
		UserSanitized:  u.Sanitize(),
		MedicalHistory: history,
	})
}

// AddHistory appends a note to a patient's history (doctor).
func (h *MedicalRecordHandler) AddHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req AddHistoryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	u, err := h.patient(ctx, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	rec, err := h.history.Add(ctx, u.ID, actor.ID, req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "Medical history updated", rec)
}
