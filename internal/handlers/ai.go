package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/drafting"
	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const draftDisclaimer = "This is a suggested draft only. The doctor must review, edit, and approve before finalizing."

// StockLister lists active medicines for drafting.
type StockLister interface {
	List(ctx context.Context, filter inventory.ListFilter) ([]models.Medicine, error)
}

// AIHandler serves the rule-based clinical assistants.
type AIHandler struct {
	stock StockLister
}

func NewAIHandler(stock StockLister) *AIHandler {
	return &AIHandler{stock: stock}
}

type DraftRequest struct {
	PatientAge    string             `json:"patientAge"`
	PatientGender string             `json:"patientGender"`
	Symptoms      string             `json:"symptoms"`
	Diagnosis     string             `json:"diagnosis"`
	VisitType     drafting.VisitType `json:"visitType"`
}

// PrescriptionDraft suggests medicines for the described condition, marked
// against current stock.
func (h *AIHandler) PrescriptionDraft(c *gin.Context) {
	var req DraftRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" && strings.TrimSpace(req.Diagnosis) == "" {
		utils.BadRequest(c, "Please provide symptoms or diagnosis for AI suggestions")
		return
	}

	meds, err := h.stock.List(c.Request.Context(), inventory.ListFilter{})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	stock := make([]drafting.StockItem, 0, len(meds))
	for _, m := range meds {
		stock = append(stock, drafting.StockItem{ID: m.ID, Name: m.Name, Quantity: m.Quantity})
	}

	visit := req.VisitType
	if visit == "" {
		visit = drafting.VisitFirst
	}
	draft := drafting.Draft(drafting.Request{
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		VisitType:     visit,
	}, stock)

	utils.Success(c, "AI suggestion generated. Please review and modify as needed before saving.", gin.H{
		"disclaimer":   draftDisclaimer,
		"prescription": draft,
	})
}

type DemandRequest struct {
	MedicineName      string `json:"medicineName"`
	CurrentStock      *int   `json:"currentStock"`
	DailyAverageUsage *int   `json:"dailyAverageUsage"`
}

// MedicineDemand estimates how long stock lasts at the given usage.
func (h *AIHandler) MedicineDemand(c *gin.Context) {
	var req DemandRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.MedicineName) == "" || req.CurrentStock == nil || req.DailyAverageUsage == nil {
		utils.Success(c, "Insufficient data", inventory.Forecast{
			Status:     inventory.DemandNormal,
			Note:       "Insufficient data",
			Suggestion: "Monitor usage periodically",
		})
		return
	}
	utils.Success(c, "Demand estimated", inventory.ForecastDemand(*req.CurrentStock, *req.DailyAverageUsage))
}

type ProgressRequest struct {
	InitialSymptoms       string                `json:"initialSymptoms"`
	DaysSincePrescription int                   `json:"daysSincePrescription"`
	PatientFeedback       models.FeedbackStatus `json:"patientFeedback"`
	OptionalComments      string                `json:"optionalComments"`
}

// SymptomProgress summarizes patient-reported progress.
func (h *AIHandler) SymptomProgress(c *gin.Context) {
	var req ProgressRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	summary := drafting.SummarizeProgress(drafting.ProgressInput{
		InitialSymptoms:       req.InitialSymptoms,
		DaysSincePrescription: req.DaysSincePrescription,
		Feedback:              req.PatientFeedback,
		Comments:              req.OptionalComments,
	})
	utils.Success(c, "Progress summarized", summary)
}

type AssistantRequest struct {
	Message string `json:"message" binding:"required"`
}

// PatientAssistant answers a patient's question about using the portal.
func (h *AIHandler) PatientAssistant(c *gin.Context) {
	var req AssistantRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	utils.Success(c, "Assistant replied", drafting.Assist(req.Message))
}
