// Package records keeps the medical history notes doctors add to a
// patient's chart.
package records

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

var ErrNotesRequired = apperr.Validation("NOTES_REQUIRED", "notes required")

// Store persists medical history in MySQL.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Add appends a note to patientID's history, dated now.
func (s *Store) Add(ctx context.Context, patientID, doctorID, notes string) (*models.MedicalRecord, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrNotesRequired
	}
	rec := &models.MedicalRecord{
		PatientID:  patientID,
		DoctorID:   doctorID,
		RecordDate: s.now(),
		Notes:      notes,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListForPatient returns a patient's history, oldest note first.
func (s *Store) ListForPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	out := []models.MedicalRecord{}
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("record_date asc").
		Find(&out).Error
	return out, err
}

// DeleteForPatient drops a patient's whole history.
func (s *Store) DeleteForPatient(ctx context.Context, patientID string) error {
	return s.db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&models.MedicalRecord{}).Error
}
