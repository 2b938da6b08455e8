package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// Stock is the part of the medicine table the ledger touches. Decrement and
// Increment must each be a single atomic row update.
type Stock interface {
	// FindByName matches active medicines by name, ignoring case.
	FindByName(ctx context.Context, name string) (*models.Medicine, error)
	// Decrement subtracts qty only if the row holds at least qty, and
	// reports whether it did.
	Decrement(ctx context.Context, id string, qty int) (bool, error)
	Increment(ctx context.Context, id string, qty int) error
}

// Store is the full medicine catalogue.
type Store interface {
	Stock

	FindByID(ctx context.Context, id string) (*models.Medicine, error)
	List(ctx context.Context, filter ListFilter) ([]models.Medicine, error)
	Create(ctx context.Context, m *models.Medicine) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Names(ctx context.Context) ([]string, error)
}

// ListFilter narrows List. Zero values are ignored.
type ListFilter struct {
	Category        models.MedicineCategory
	LowStock        bool
	IncludeInactive bool
}

// GormStore keeps medicines in MySQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByName(ctx context.Context, name string) (*models.Medicine, error) {
	var m models.Medicine
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(name)), true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, name)
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Medicine, error) {
	var m models.Medicine
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) Decrement(ctx context.Context, id string, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) Increment(ctx context.Context, id string, qty int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, filter ListFilter) ([]models.Medicine, error) {
	q := s.db.WithContext(ctx).Order("name asc")
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("quantity <= alert_level")
	}

	var out []models.Medicine
	err := q.Find(&out).Error
	return out, err
}

func (s *GormStore) Create(ctx context.Context, m *models.Medicine) error {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("LOWER(name) = ?", strings.ToLower(m.Name)).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateMedicine, m.Name)
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateMedicine, m.Name)
		}
		return err
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&models.Medicine{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMedicine
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	return nil
}

func (s *GormStore) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Medicine{}).Pluck("name", &names).Error
	return names, err
}
