package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
)

// memoryRepo mimics the MySQL store, including the unique slot_key index.
type memoryRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Appointment
	slots map[string]string // slot key -> appointment id

	// afterListOpen runs between ListOpen reading and returning.
	afterListOpen func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[string]*models.Appointment{}, slots: map[string]string{}}
}

func clone(a *models.Appointment) *models.Appointment {
	c := *a
	if a.SlotKey != nil {
		k := *a.SlotKey
		c.SlotKey = &k
	}
	return &c
}

func (r *memoryRepo) BookedTimeValues(_ context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.rows {
		if a.Date.Format(time.DateOnly) == date.Format(time.DateOnly) && a.Status.HoldsSlot() {
			out = append(out, a.TimeValue)
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.SlotKey != nil {
		if _, taken := r.slots[*a.SlotKey]; taken {
			return ErrSlotConflict
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	r.rows[a.ID] = clone(a)
	if a.SlotKey != nil {
		r.slots[*a.SlotKey] = a.ID
	}
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(a), nil
}

func (r *memoryRepo) Transition(_ context.Context, id string, from []models.AppointmentStatus, changes Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || !statusIn(a.Status, from) || !changes.Expect.Matches(a) {
		return errStale
	}

	updated := clone(a)
	changes.Apply(updated)
	if updated.SlotKey != nil {
		if owner, taken := r.slots[*updated.SlotKey]; taken && owner != id {
			return ErrSlotConflict
		}
	}
	if a.SlotKey != nil {
		delete(r.slots, *a.SlotKey)
	}
	if updated.SlotKey != nil {
		r.slots[*updated.SlotKey] = id
	}
	r.rows[id] = updated
	return nil
}

func (r *memoryRepo) List(_ context.Context, f Filter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.rows {
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		if len(f.Statuses) > 0 && !statusIn(a.Status, f.Statuses) {
			continue
		}
		if f.FromDay != nil && a.Date.Before(*f.FromDay) {
			continue
		}
		out = append(out, *clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) ListOpen(ctx context.Context) ([]models.Appointment, error) {
	out, err := r.List(ctx, Filter{Statuses: models.OpenStatuses})
	if r.afterListOpen != nil {
		r.afterListOpen()
	}
	return out, err
}

func (r *memoryRepo) ListReminderCandidates(ctx context.Context, fromDay time.Time) ([]models.Appointment, error) {
	open, _ := r.List(ctx, Filter{Statuses: models.OpenStatuses, FromDay: &fromDay})
	var out []models.Appointment
	for _, a := range open {
		if !a.ReminderSent {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) ClaimReminder(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.ReminderSent {
		return false, nil
	}
	a.ReminderSent = true
	return true, nil
}

func (r *memoryRepo) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	values, _ := r.BookedTimeValues(ctx, day)
	return int64(len(values)), nil
}

func (r *memoryRepo) DeleteByPatient(_ context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.rows {
		if a.PatientID == patientID {
			if a.SlotKey != nil {
				delete(r.slots, *a.SlotKey)
			}
			delete(r.rows, id)
		}
	}
	return nil
}

// put stores a row directly, bypassing booking rules.
func (r *memoryRepo) put(a models.Appointment) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status.HoldsSlot() && a.SlotKey == nil {
		key := a.Date.Format(time.DateOnly) + " " + a.TimeValue
		a.SlotKey = &key
	}
	r.rows[a.ID] = clone(&a)
	if a.SlotKey != nil {
		r.slots[*a.SlotKey] = a.ID
	}
	return clone(&a)
}

type fakeDirectory struct {
	contacts map[string]directory.Contact
}

func (d fakeDirectory) Contact(_ context.Context, id string) (directory.Contact, error) {
	c, ok := d.contacts[id]
	if !ok {
		return directory.Contact{}, fmt.Errorf("%w: %s", directory.ErrUserNotFound, id)
	}
	return c, nil
}

func (d fakeDirectory) DefaultDoctor(_ context.Context) (directory.Contact, error) {
	return d.contacts["doctor-1"], nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(c ActionClaims) (string, error) {
	return string(c.Action) + "|" + c.AppointmentID + "|" + c.DoctorID, nil
}

func (fakeTokens) Parse(token string) (ActionClaims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return ActionClaims{}, errors.New("malformed token")
	}
	return ActionClaims{Action: Action(parts[0]), AppointmentID: parts[1], DoctorID: parts[2]}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Kind
	for _, m := range n.sent {
		out = append(out, m.Kind)
	}
	return out
}

func (n *recordingNotifier) byKind(kind notify.Kind) []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Message
	for _, m := range n.sent {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
