// Package inventory keeps medicine stock. The Ledger is the only writer of
// quantities: every change is a single conditional row update, so stock never
// drops below zero however many reservations race.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/metrics"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

type Ledger struct {
	stock Stock
	log   zerolog.Logger
}

func NewLedger(stock Stock, log zerolog.Logger) *Ledger {
	return &Ledger{stock: stock, log: log}
}

// Reserve takes qty units of the named medicine. It returns the medicine as
// it was looked up, with Quantity reduced by qty.
func (l *Ledger) Reserve(ctx context.Context, name string, qty int) (m *models.Medicine, err error) {
	defer func() { metrics.StockOperations.WithLabelValues("reserve", metrics.Result(err)).Inc() }()

	name = strings.TrimSpace(name)
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %s requested %d", ErrInvalidQuantity, name, qty)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: medicine name is required", ErrInvalidMedicine)
	}

	m, err = l.stock.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	ok, err := l.stock.Decrement(ctx, m.ID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.log.Debug().Str("medicine", m.Name).Int("requested", qty).Int("seen", m.Quantity).Msg("reservation refused")
		return nil, fmt.Errorf("%w: %s (requested %d, available %d)", ErrInsufficientStock, m.Name, qty, m.Quantity)
	}

	m.Quantity -= qty
	return m, nil
}

// Release returns qty units to a medicine, active or not.
func (l *Ledger) Release(ctx context.Context, medicineID string, qty int) (err error) {
	defer func() { metrics.StockOperations.WithLabelValues("release", metrics.Result(err)).Inc() }()

	if qty <= 0 {
		return fmt.Errorf("%w: release of %d", ErrInvalidQuantity, qty)
	}
	return l.stock.Increment(ctx, medicineID, qty)
}

// Take removes qty units from a known medicine, failing if the row holds
// fewer.
func (l *Ledger) Take(ctx context.Context, medicineID string, qty int) (err error) {
	defer func() { metrics.StockOperations.WithLabelValues("take", metrics.Result(err)).Inc() }()

	if qty <= 0 {
		return fmt.Errorf("%w: take of %d", ErrInvalidQuantity, qty)
	}
	ok, err := l.stock.Decrement(ctx, medicineID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, medicineID)
	}
	return nil
}
