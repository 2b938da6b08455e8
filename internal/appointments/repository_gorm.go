package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// GormRepository stores appointments in MySQL. The unique index on slot_key
// is what closes the check-then-book race.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var releasedStatuses = []models.AppointmentStatus{models.StatusCancelled}

func (r *GormRepository) BookedTimeValues(ctx context.Context, date time.Time) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date = ? AND status NOT IN ?", date.Format(time.DateOnly), releasedStatuses).
		Pluck("time_value", &values).Error
	return values, err
}

func (r *GormRepository) Create(ctx context.Context, a *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotConflict
		}
		return err
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormRepository) Transition(ctx context.Context, id string, from []models.AppointmentStatus, changes Changes) error {
	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", id, from)
	if changes.Expect != nil {
		q = q.Where("date = ? AND time_value = ?", changes.Expect.Date.Format(time.DateOnly), changes.Expect.TimeValue)
	}
	res := q.Updates(changes.columns())
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrSlotConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStale
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context, filter Filter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Order("date asc, time_value asc")
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.FromDay != nil {
		q = q.Where("date >= ?", filter.FromDay.Format(time.DateOnly))
	}

	var out []models.Appointment
	err := q.Find(&out).Error
	return out, err
}

func (r *GormRepository) ListOpen(ctx context.Context) ([]models.Appointment, error) {
	return r.List(ctx, Filter{Statuses: models.OpenStatuses})
}

func (r *GormRepository) ListReminderCandidates(ctx context.Context, fromDay time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ? AND reminder_sent = ? AND date >= ?", models.OpenStatuses, false, fromDay.Format(time.DateOnly)).
		Find(&out).Error
	return out, err
}

func (r *GormRepository) ClaimReminder(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Update("reminder_sent", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepository) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date = ? AND status NOT IN ?", day.Format(time.DateOnly), releasedStatuses).
		Count(&n).Error
	return n, err
}

func (r *GormRepository) DeleteByPatient(ctx context.Context, patientID string) error {
	return r.db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&models.Appointment{}).Error
}
