package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// Catalogue manages medicine records. Quantities only move through the
// ledger.
type Catalogue struct {
	store  Store
	ledger *Ledger
	log    zerolog.Logger
}

func NewCatalogue(store Store, log zerolog.Logger) *Catalogue {
	return &Catalogue{store: store, ledger: NewLedger(store, log), log: log}
}

// Ledger returns the ledger bound to the catalogue's store.
func (c *Catalogue) Ledger() *Ledger {
	return c.ledger
}

// MedicineInput holds the editable fields of a medicine.
type MedicineInput struct {
	Name                string                  `json:"name" validate:"required,max=200"`
	Manufacturer        string                  `json:"manufacturer" validate:"max=200"`
	Category            models.MedicineCategory `json:"category"`
	Quantity            *int                    `json:"quantity"`
	AlertLevel          *int                    `json:"alertLevel"`
	MinStockThreshold   *int                    `json:"minStockThreshold"`
	DefaultDosage       string                  `json:"defaultDosage"`
	DefaultDuration     int                     `json:"defaultDuration"`
	DefaultInstructions string                  `json:"defaultInstructions"`
}

func (in *MedicineInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMedicine)
	}
	if in.Category == "" {
		in.Category = models.CategoryOthers
	}
	if !models.ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMedicine, in.Category)
	}
	for _, v := range []*int{in.Quantity, in.AlertLevel, in.MinStockThreshold} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: cannot be negative", ErrInvalidQuantity)
		}
	}
	if in.DefaultDuration < 0 {
		return fmt.Errorf("%w: default duration cannot be negative", ErrInvalidMedicine)
	}
	return nil
}

func (c *Catalogue) List(ctx context.Context, filter ListFilter) ([]models.Medicine, error) {
	return c.store.List(ctx, filter)
}

func (c *Catalogue) Get(ctx context.Context, id string) (*models.Medicine, error) {
	return c.store.FindByID(ctx, id)
}

// Create adds a medicine. Names are unique regardless of case.
func (c *Catalogue) Create(ctx context.Context, in MedicineInput) (*models.Medicine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	m := &models.Medicine{
		Name:                in.Name,
		Manufacturer:        in.Manufacturer,
		Category:            in.Category,
		AlertLevel:          5,
		MinStockThreshold:   5,
		DefaultDosage:       in.DefaultDosage,
		DefaultDuration:     in.DefaultDuration,
		DefaultInstructions: in.DefaultInstructions,
		IsActive:            true,
		Source:              models.SourceManual,
	}
	if in.Quantity != nil {
		m.Quantity = *in.Quantity
	}
	if in.AlertLevel != nil {
		m.AlertLevel = *in.AlertLevel
	}
	if in.MinStockThreshold != nil {
		m.MinStockThreshold = *in.MinStockThreshold
	}

	if err := c.store.Create(ctx, m); err != nil {
		return nil, err
	}
	c.log.Info().Str("medicine_id", m.ID).Str("name", m.Name).Int("quantity", m.Quantity).Msg("medicine created")
	return m, nil
}

// Update changes descriptive fields. A quantity in the input is ignored;
// use SetQuantity.
func (c *Catalogue) Update(ctx context.Context, id string, in MedicineInput) (*models.Medicine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name":                 in.Name,
		"manufacturer":         in.Manufacturer,
		"category":             in.Category,
		"default_dosage":       in.DefaultDosage,
		"default_duration":     in.DefaultDuration,
		"default_instructions": in.DefaultInstructions,
	}
	if in.AlertLevel != nil {
		fields["alert_level"] = *in.AlertLevel
	}
	if in.MinStockThreshold != nil {
		fields["min_stock_threshold"] = *in.MinStockThreshold
	}

	if err := c.store.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return c.store.FindByID(ctx, id)
}

// SetQuantity moves stock to target through the ledger, so a reservation
// landing in between can make it fail rather than be overwritten.
func (c *Catalogue) SetQuantity(ctx context.Context, id string, target int) (*models.Medicine, error) {
	if target < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidQuantity)
	}

	m, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch delta := target - m.Quantity; {
	case delta > 0:
		err = c.ledger.Release(ctx, id, delta)
	case delta < 0:
		err = c.ledger.Take(ctx, id, -delta)
	}
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("medicine_id", id).Int("from", m.Quantity).Int("to", target).Msg("stock adjusted")
	return c.store.FindByID(ctx, id)
}

// Retire hides a medicine from prescribing. Its row stays so earlier
// prescriptions can still release stock to it.
func (c *Catalogue) Retire(ctx context.Context, id string) error {
	if err := c.store.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return err
	}
	c.log.Info().Str("medicine_id", id).Msg("medicine retired")
	return nil
}
