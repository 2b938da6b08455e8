package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// TxStore is what a unit of work can touch: prescriptions and the stock
// they reserve, committed or rolled back together.
type TxStore interface {
	Create(ctx context.Context, p *models.Prescription) error
	FindByID(ctx context.Context, id string) (*models.Prescription, error)
	// FindForUpdate reads a prescription and locks its row until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, id string) (*models.Prescription, error)
	// ReplaceLines swaps the diagnosis and every line of a prescription.
	ReplaceLines(ctx context.Context, id, diagnosis string, lines []models.PrescriptionLine) error
	Delete(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	Medicines() inventory.Stock
}

// Store persists prescriptions.
type Store interface {
	TxStore

	// Transaction runs fn atomically. Returning an error rolls back every
	// write made through tx.
	Transaction(ctx context.Context, fn func(tx TxStore) error) error

	List(ctx context.Context, patientID string) ([]models.Prescription, error)
	SetPDFPath(ctx context.Context, id, path string) error
	SaveFeedback(ctx context.Context, id string, fb models.ProgressFeedback) error
}

// GormStore keeps prescriptions and their lines in MySQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx TxStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Medicines() inventory.Stock {
	return inventory.NewGormStore(s.db)
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (s *GormStore) Create(ctx context.Context, p *models.Prescription) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Prescription, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *GormStore) FindForUpdate(ctx context.Context, id string) (*models.Prescription, error) {
	return s.find(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *GormStore) find(db *gorm.DB, id string) (*models.Prescription, error) {
	var p models.Prescription
	err := db.
		Preload("Medicines", orderedLines).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) ReplaceLines(ctx context.Context, id, diagnosis string, lines []models.PrescriptionLine) error {
	db := s.db.WithContext(ctx)

	res := db.Model(&models.Prescription{}).Where("id = ?", id).Update("diagnosis", diagnosis)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := db.Where("prescription_id = ?", id).Delete(&models.PrescriptionLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = ""
		lines[i].PrescriptionID = id
		lines[i].Position = i
	}
	return db.Create(&lines).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("prescription_id = ?", id).Delete(&models.PrescriptionLine{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Prescription{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return s.List(ctx, patientID)
}

// List returns prescriptions newest first, optionally for one patient.
func (s *GormStore) List(ctx context.Context, patientID string) ([]models.Prescription, error) {
	q := s.db.WithContext(ctx).Preload("Medicines", orderedLines).Order("created_at desc")
	if patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}

	var out []models.Prescription
	err := q.Find(&out).Error
	return out, err
}

func (s *GormStore) SetPDFPath(ctx context.Context, id, path string) error {
	return s.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}

func (s *GormStore) SaveFeedback(ctx context.Context, id string, fb models.ProgressFeedback) error {
	updatedAt := time.Now()
	if fb.UpdatedAt != nil {
		updatedAt = *fb.UpdatedAt
	}
	return s.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"feedback_status":         fb.Status,
			"feedback_condition_name": fb.ConditionName,
			"feedback_comments":       fb.Comments,
			"feedback_ai_summary":     fb.AISummary,
			"feedback_updated_at":     updatedAt,
		}).Error
}
