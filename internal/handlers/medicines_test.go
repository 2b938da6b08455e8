package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

type fakeCatalogue struct {
	meds    map[string]*models.Medicine
	filter  inventory.ListFilter
	retired []string
}

func (f *fakeCatalogue) List(_ context.Context, filter inventory.ListFilter) ([]models.Medicine, error) {
	f.filter = filter
	var out []models.Medicine
	for _, m := range f.meds {
		if filter.LowStock && !m.IsLowStock() {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeCatalogue) Get(_ context.Context, id string) (*models.Medicine, error) {
	m, ok := f.meds[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrMedicineNotFound, id)
	}
	return m, nil
}

func (f *fakeCatalogue) Create(_ context.Context, in inventory.MedicineInput) (*models.Medicine, error) {
	m := &models.Medicine{BaseModel: models.BaseModel{ID: "med-new"}, Name: in.Name}
	f.meds[m.ID] = m
	return m, nil
}

func (f *fakeCatalogue) Update(ctx context.Context, id string, in inventory.MedicineInput) (*models.Medicine, error) {
	return f.Get(ctx, id)
}

func (f *fakeCatalogue) SetQuantity(ctx context.Context, id string, target int) (*models.Medicine, error) {
	m, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Quantity = target
	return m, nil
}

func (f *fakeCatalogue) Retire(_ context.Context, id string) error {
	f.retired = append(f.retired, id)
	return nil
}

func medicineRouter(cat *fakeCatalogue) http.Handler {
	h := NewMedicineHandler(cat)
	r, private := newTestRouter()
	private.GET("/medicines", h.ListMedicines)
	private.GET("/medicines/:id", h.GetMedicine)
	private.PATCH("/medicines/:id/quantity", h.UpdateQuantity)
	private.DELETE("/medicines/:id", h.DeleteMedicine)
	return r
}

func newCatalogue() *fakeCatalogue {
	return &fakeCatalogue{meds: map[string]*models.Medicine{
		"med-giloy": {BaseModel: models.BaseModel{ID: "med-giloy"}, Name: "Giloy", Quantity: 3, AlertLevel: 5, IsActive: true},
	}}
}

func TestListMedicinesFilters(t *testing.T) {
	cat := newCatalogue()
	w, _ := do(t, medicineRouter(cat), doctor, http.MethodGet, "/medicines?category=churna&lowStock=true&includeInactive=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, inventory.ListFilter{Category: models.MedicineCategory("churna"), LowStock: true, IncludeInactive: true}, cat.filter)
}

func TestUpdateQuantity(t *testing.T) {
	cat := newCatalogue()
	r := medicineRouter(cat)

	tests := []struct {
		name string
		id   string
		body any
		want int
	}{
		{"missing quantity", "med-giloy", map[string]any{}, http.StatusBadRequest},
		{"negative", "med-giloy", map[string]any{"quantity": -1}, http.StatusBadRequest},
		{"unknown medicine", "med-none", map[string]any{"quantity": 4}, http.StatusNotFound},
		{"zero is allowed", "med-giloy", map[string]any{"quantity": 0}, http.StatusOK},
		{"absolute value", "med-giloy", map[string]any{"quantity": 40}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, r, doctor, http.MethodPatch, "/medicines/"+tt.id+"/quantity", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, 40, cat.meds["med-giloy"].Quantity)
}

func TestDeleteMedicineRetires(t *testing.T) {
	cat := newCatalogue()
	w, _ := do(t, medicineRouter(cat), doctor, http.MethodDelete, "/medicines/med-giloy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"med-giloy"}, cat.retired)
	assert.Contains(t, cat.meds, "med-giloy")
}
