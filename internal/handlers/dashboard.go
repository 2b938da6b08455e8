package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// DashboardSources are the counters the dashboard summarises.
type DashboardSources struct {
	Users interface {
		Count(ctx context.Context, role models.Role) (int64, error)
	}
	Appointments interface {
		CountToday(ctx context.Context) (int64, error)
		List(ctx context.Context, actor models.Actor) ([]models.Appointment, error)
		Upcoming(ctx context.Context, patientID string) ([]models.Appointment, error)
	}
	Stock StockLister
}

// DashboardHandler serves the per-role landing page numbers.
type DashboardHandler struct {
	src DashboardSources
}

func NewDashboardHandler(src DashboardSources) *DashboardHandler {
	return &DashboardHandler{src: src}
}

// DoctorStats returns patient, today and low-stock counts.
func (h *DashboardHandler) DoctorStats(c *gin.Context) {
	ctx := c.Request.Context()

	patients, err := h.src.Users.Count(ctx, models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	today, err := h.src.Appointments.CountToday(ctx)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	low, err := h.src.Stock.List(ctx, inventory.ListFilter{LowStock: true})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Dashboard stats fetched successfully", gin.H{
		"totalPatients":     patients,
		"todayAppointments": today,
		"lowStock":          len(low),
	})
}

// PatientStats returns the caller's appointment totals.
func (h *DashboardHandler) PatientStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	all, err := h.src.Appointments.List(ctx, actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	upcoming, err := h.src.Appointments.Upcoming(ctx, actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Dashboard stats fetched successfully", gin.H{
		"totalAppointments":    len(all),
		"upcomingAppointments": len(upcoming),
	})
}
