package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/prescriptions"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// PrescriptionService is the coordinator behind the prescription routes.
type PrescriptionService interface {
	Create(ctx context.Context, actor models.Actor, in prescriptions.CreateInput) (*models.Prescription, error)
	Update(ctx context.Context, actor models.Actor, id string, in prescriptions.UpdateInput) (*models.Prescription, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error)
	List(ctx context.Context, actor models.Actor, patientID string) ([]models.Prescription, error)
	Download(ctx context.Context, actor models.Actor, id string) ([]byte, string, error)
	Resend(ctx context.Context, actor models.Actor, id string) error
	SubmitFeedback(ctx context.Context, actor models.Actor, id string, in prescriptions.FeedbackInput) (*models.Prescription, error)
}

type PrescriptionHandler struct {
	svc PrescriptionService
}

func NewPrescriptionHandler(svc PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc}
}

// ListPrescriptions returns the caller's prescriptions; staff may filter
// with ?patientId=.
func (h *PrescriptionHandler) ListPrescriptions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), actor, c.Query("patientId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Prescriptions fetched successfully", list)
}

func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Prescription fetched successfully", p)
}

// CreatePrescription saves the prescription and reserves its stock. The PDF
// is generated and mailed afterwards.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req prescriptions.CreateInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Prescription created successfully", p)
}

func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req prescriptions.UpdateInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Prescription updated successfully", p)
}

// DownloadPrescription streams the PDF as an attachment.
func (h *PrescriptionHandler) DownloadPrescription(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	data, name, err := h.svc.Download(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// SendPDF mails the prescription to the patient again.
func (h *PrescriptionHandler) SendPDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.svc.Resend(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Prescription sent to patient", nil)
}

func (h *PrescriptionHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req prescriptions.FeedbackInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.SubmitFeedback(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Feedback recorded", gin.H{
		"prescription": p,
		"aiSummary":    p.Feedback.AISummary,
	})
}
