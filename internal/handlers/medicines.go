package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

// MedicineCatalogue is the inventory surface behind the medicine routes.
type MedicineCatalogue interface {
	List(ctx context.Context, filter inventory.ListFilter) ([]models.Medicine, error)
	Get(ctx context.Context, id string) (*models.Medicine, error)
	Create(ctx context.Context, in inventory.MedicineInput) (*models.Medicine, error)
	Update(ctx context.Context, id string, in inventory.MedicineInput) (*models.Medicine, error)
	SetQuantity(ctx context.Context, id string, target int) (*models.Medicine, error)
	Retire(ctx context.Context, id string) error
}

// MedicineHandler handles the medicine catalogue.
type MedicineHandler struct {
	catalogue MedicineCatalogue
}

func NewMedicineHandler(catalogue MedicineCatalogue) *MedicineHandler {
	return &MedicineHandler{catalogue: catalogue}
}

// ListMedicines supports ?category=, ?lowStock=true and ?includeInactive=true.
func (h *MedicineHandler) ListMedicines(c *gin.Context) {
	lowStock, _ := strconv.ParseBool(c.Query("lowStock"))
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))

	list, err := h.catalogue.List(c.Request.Context(), inventory.ListFilter{
		Category:        models.MedicineCategory(c.Query("category")),
		LowStock:        lowStock,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medicines fetched successfully", list)
}

func (h *MedicineHandler) GetMedicine(c *gin.Context) {
	m, err := h.catalogue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medicine fetched successfully", m)
}

func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var req inventory.MedicineInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	m, err := h.catalogue.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Medicine created successfully", m)
}

// UpdateMedicine edits descriptive fields. Stock changes go through
// UpdateQuantity.
func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	var req inventory.MedicineInput
	if !utils.BindAndValidate(c, &req) {
		return
	}
	m, err := h.catalogue.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medicine updated successfully", m)
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateQuantity sets the absolute stock level.
func (h *MedicineHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if *req.Quantity < 0 {
		utils.BadRequest(c, "Quantity must be a non-negative number")
		return
	}
	m, err := h.catalogue.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Quantity updated successfully", m)
}

// DeleteMedicine retires the medicine; its history stays intact.
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	if err := h.catalogue.Retire(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medicine deleted successfully", nil)
}
