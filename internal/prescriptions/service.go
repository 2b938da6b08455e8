// Package prescriptions coordinates prescribing with inventory. Creating or
// editing a prescription and reserving its stock happen in one transaction:
// either every line is reserved and saved, or nothing changes.
package prescriptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/clock"
	"github.com/SamarthKalavadia/hospital-management-system/internal/drafting"
	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// LineInput is one requested medicine.
type LineInput struct {
	MedicineName string `json:"medicineName" validate:"required"`
	Dosage       string `json:"dosage"`
	Duration     int    `json:"duration" validate:"gte=0"`
	Instructions string `json:"instructions"`
	Qty          int    `json:"qty" validate:"required,gt=0"`
}

// CreateInput describes a new prescription.
type CreateInput struct {
	PatientID     string      `json:"patientId" validate:"required"`
	AppointmentID *string     `json:"appointmentId"`
	Diagnosis     string      `json:"diagnosis"`
	Medicines     []LineInput `json:"medicines" validate:"required,min=1,dive"`
}

// UpdateInput replaces a prescription's content.
type UpdateInput struct {
	Diagnosis string      `json:"diagnosis"`
	Medicines []LineInput `json:"medicines" validate:"required,min=1,dive"`
}

// FeedbackInput is a patient's progress report.
type FeedbackInput struct {
	Status        models.FeedbackStatus `json:"status"`
	ConditionName string                `json:"conditionName"`
	Comments      string                `json:"comments"`
}

type Service struct {
	store     Store
	dir       Directory
	deliverer *Deliverer
	now       clock.Clock
	log       zerolog.Logger
}

func NewService(store Store, dir Directory, deliverer *Deliverer, now clock.Clock, log zerolog.Logger) *Service {
	if now == nil {
		now = clock.System
	}
	return &Service{store: store, dir: dir, deliverer: deliverer, now: now, log: log}
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one medicine is required", ErrInvalidPrescription)
	}
	for i, l := range lines {
		if strings.TrimSpace(l.MedicineName) == "" {
			return fmt.Errorf("%w: line %d has no medicine name", ErrInvalidPrescription, i+1)
		}
		if l.Qty <= 0 {
			return fmt.Errorf("%w: %s needs a positive quantity", ErrInvalidPrescription, l.MedicineName)
		}
		if l.Duration < 0 {
			return fmt.Errorf("%w: %s has a negative duration", ErrInvalidPrescription, l.MedicineName)
		}
	}
	return nil
}

// reserveLines takes stock for every line, in order, and returns the lines
// bound to the reserved medicines.
func (s *Service) reserveLines(ctx context.Context, tx TxStore, in []LineInput) ([]models.PrescriptionLine, error) {
	ledger := inventory.NewLedger(tx.Medicines(), s.log)

	lines := make([]models.PrescriptionLine, 0, len(in))
	for _, l := range in {
		m, err := ledger.Reserve(ctx, l.MedicineName, l.Qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.PrescriptionLine{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			Dosage:       strings.TrimSpace(l.Dosage),
			Duration:     l.Duration,
			Instructions: strings.TrimSpace(l.Instructions),
			Qty:          l.Qty,
		})
	}
	return lines, nil
}

func (s *Service) releaseLines(ctx context.Context, tx TxStore, lines []models.PrescriptionLine) error {
	ledger := inventory.NewLedger(tx.Medicines(), s.log)
	for _, l := range lines {
		if l.MedicineID == "" || l.Qty <= 0 {
			continue
		}
		if err := ledger.Release(ctx, l.MedicineID, l.Qty); err != nil {
			return fmt.Errorf("release %s: %w", l.MedicineName, err)
		}
	}
	return nil
}

// Create saves a prescription and reserves its stock atomically, then
// delivers it in the background.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Prescription, error) {
	if !actor.IsDoctor() {
		return nil, apperr.ErrForbidden
	}
	if strings.TrimSpace(in.PatientID) == "" {
		return nil, fmt.Errorf("%w: patient is required", ErrInvalidPrescription)
	}
	if err := validateLines(in.Medicines); err != nil {
		return nil, err
	}

	patient, err := s.dir.Contact(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	p := &models.Prescription{
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		DoctorID:      actor.ID,
		AppointmentID: in.AppointmentID,
		Diagnosis:     strings.TrimSpace(in.Diagnosis),
	}
	err = s.store.Transaction(ctx, func(tx TxStore) error {
		if err := tx.Create(ctx, p); err != nil {
			return err
		}
		lines, err := s.reserveLines(ctx, tx, in.Medicines)
		if err != nil {
			return err
		}
		if err := tx.ReplaceLines(ctx, p.ID, p.Diagnosis, lines); err != nil {
			return err
		}
		p.Medicines = lines
		return nil
	})
	if err != nil {
		s.log.Info().Err(err).Str("patient_id", in.PatientID).Msg("prescription rejected")
		return nil, err
	}

	s.log.Info().Str("prescription_id", p.ID).Int("lines", len(p.Medicines)).Msg("prescription created")
	s.deliverer.DeliverAsync(p.ID)
	return p, nil
}

// Update releases the old lines and reserves the new ones in one
// transaction, so stock never reflects both at once.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, in UpdateInput) (*models.Prescription, error) {
	if !actor.IsDoctor() {
		return nil, apperr.ErrForbidden
	}
	if err := validateLines(in.Medicines); err != nil {
		return nil, err
	}

	var p *models.Prescription
	err := s.store.Transaction(ctx, func(tx TxStore) error {
		current, err := tx.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.releaseLines(ctx, tx, current.Medicines); err != nil {
			return err
		}
		lines, err := s.reserveLines(ctx, tx, in.Medicines)
		if err != nil {
			return err
		}
		diagnosis := strings.TrimSpace(in.Diagnosis)
		if err := tx.ReplaceLines(ctx, id, diagnosis, lines); err != nil {
			return err
		}
		current.Diagnosis = diagnosis
		current.Medicines = lines
		p = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("prescription_id", id).Int("lines", len(p.Medicines)).Msg("prescription updated")
	s.deliverer.DeliverAsync(id)
	return p, nil
}

// Get returns a prescription to its patient or to staff.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && p.PatientID != actor.ID {
		return nil, apperr.ErrForbidden
	}
	return p, nil
}

// List returns a patient's own prescriptions, or for staff every
// prescription, optionally for one patient.
func (s *Service) List(ctx context.Context, actor models.Actor, patientID string) ([]models.Prescription, error) {
	switch {
	case actor.IsPatient():
		return s.store.List(ctx, actor.ID)
	case actor.IsStaff():
		return s.store.List(ctx, patientID)
	}
	return nil, apperr.ErrForbidden
}

// Download returns the prescription PDF and its file name.
func (s *Service) Download(ctx context.Context, actor models.Actor, id string) ([]byte, string, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.deliverer.Document(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return data, "Prescription_" + p.ID + ".pdf", nil
}

// Resend renders and mails a prescription again, reporting the outcome.
func (s *Service) Resend(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsDoctor() {
		return apperr.ErrForbidden
	}
	if err := s.deliverer.Deliver(ctx, id); err != nil {
		if apperr.From(err).Kind != apperr.KindInternal {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// SubmitFeedback stores the owning patient's progress report with a
// generated summary.
func (s *Service) SubmitFeedback(ctx context.Context, actor models.Actor, id string, in FeedbackInput) (*models.Prescription, error) {
	switch in.Status {
	case models.FeedbackBetter, models.FeedbackSame, models.FeedbackWorse:
	default:
		return nil, fmt.Errorf("%w: status must be Better, Same or Worse", ErrInvalidFeedback)
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsPatient() || p.PatientID != actor.ID {
		return nil, apperr.ErrForbidden
	}

	now := s.now()
	days := int(now.Sub(p.CreatedAt) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	symptoms := strings.TrimSpace(in.ConditionName)
	if symptoms == "" {
		symptoms = p.Diagnosis
	}
	summary := drafting.SummarizeProgress(drafting.ProgressInput{
		InitialSymptoms:       symptoms,
		DaysSincePrescription: days,
		Feedback:              in.Status,
		Comments:              in.Comments,
	})

	status := in.Status
	fb := models.ProgressFeedback{
		Status:        &status,
		ConditionName: strings.TrimSpace(in.ConditionName),
		Comments:      strings.TrimSpace(in.Comments),
		AISummary:     summary.Formatted,
		UpdatedAt:     &now,
	}
	if err := s.store.SaveFeedback(ctx, id, fb); err != nil {
		return nil, err
	}
	p.Feedback = fb
	return p, nil
}

// DeleteForPatient removes every prescription of a patient and returns their
// reserved stock, all in one transaction.
func (s *Service) DeleteForPatient(ctx context.Context, patientID string) error {
	return s.store.Transaction(ctx, func(tx TxStore) error {
		list, err := tx.ListByPatient(ctx, patientID)
		if err != nil {
			return err
		}
		for i := range list {
			if err := s.releaseLines(ctx, tx, list[i].Medicines); err != nil {
				return err
			}
			if err := tx.Delete(ctx, list[i].ID); err != nil {
				return err
			}
		}
		s.log.Info().Str("patient_id", patientID).Int("prescriptions", len(list)).Msg("patient prescriptions deleted")
		return nil
	})
}
