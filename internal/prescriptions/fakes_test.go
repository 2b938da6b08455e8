package prescriptions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/SamarthKalavadia/hospital-management-system/internal/directory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/notify"
	"github.com/SamarthKalavadia/hospital-management-system/internal/render"
)

// memData is one consistent view of prescriptions and medicines.
type memData struct {
	rx   map[string]*models.Prescription
	meds map[string]*models.Medicine
}

func (d *memData) clone() *memData {
	c := &memData{rx: map[string]*models.Prescription{}, meds: map[string]*models.Medicine{}}
	for id, p := range d.rx {
		c.rx[id] = copyPrescription(p)
	}
	for id, m := range d.meds {
		mm := *m
		c.meds[id] = &mm
	}
	return c
}

func copyPrescription(p *models.Prescription) *models.Prescription {
	c := *p
	c.Medicines = append([]models.PrescriptionLine(nil), p.Medicines...)
	return &c
}

func (d *memData) Create(_ context.Context, p *models.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	d.rx[p.ID] = copyPrescription(p)
	return nil
}

func (d *memData) FindByID(_ context.Context, id string) (*models.Prescription, error) {
	p, ok := d.rx[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyPrescription(p), nil
}

func (d *memData) FindForUpdate(ctx context.Context, id string) (*models.Prescription, error) {
	return d.FindByID(ctx, id)
}

func (d *memData) ReplaceLines(_ context.Context, id, diagnosis string, lines []models.PrescriptionLine) error {
	p, ok := d.rx[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.Diagnosis = diagnosis
	p.Medicines = nil
	for i, l := range lines {
		l.PrescriptionID = id
		l.Position = i
		p.Medicines = append(p.Medicines, l)
	}
	return nil
}

func (d *memData) Delete(_ context.Context, id string) error {
	if _, ok := d.rx[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(d.rx, id)
	return nil
}

func (d *memData) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return d.list(patientID), nil
}

func (d *memData) list(patientID string) []models.Prescription {
	var out []models.Prescription
	for _, p := range d.rx {
		if patientID == "" || p.PatientID == patientID {
			out = append(out, *copyPrescription(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (d *memData) Medicines() inventory.Stock {
	return memStock{d}
}

type memStock struct {
	d *memData
}

func (s memStock) FindByName(_ context.Context, name string) (*models.Medicine, error) {
	for _, m := range s.d.meds {
		if m.IsActive && strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			c := *m
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", inventory.ErrMedicineNotFound, name)
}

func (s memStock) Decrement(_ context.Context, id string, qty int) (bool, error) {
	m, ok := s.d.meds[id]
	if !ok || m.Quantity < qty {
		return false, nil
	}
	m.Quantity -= qty
	return true, nil
}

func (s memStock) Increment(_ context.Context, id string, qty int) error {
	m, ok := s.d.meds[id]
	if !ok {
		return fmt.Errorf("%w: %s", inventory.ErrMedicineNotFound, id)
	}
	m.Quantity += qty
	return nil
}

// memoryStore runs transactions one at a time on a private copy and swaps
// it in on success, which gives all-or-nothing commits.
type memoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memData
}

func newMemoryStore(meds ...models.Medicine) *memoryStore {
	d := &memData{rx: map[string]*models.Prescription{}, meds: map[string]*models.Medicine{}}
	for i := range meds {
		m := meds[i]
		d.meds[m.ID] = &m
	}
	return &memoryStore{data: d}
}

func (s *memoryStore) Transaction(ctx context.Context, fn func(tx TxStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	work := s.data.clone()
	s.mu.Unlock()

	if err := fn(work); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.meds[id].Quantity
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.rx)
}

func (s *memoryStore) Create(ctx context.Context, p *models.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Create(ctx, p)
}

func (s *memoryStore) FindByID(ctx context.Context, id string) (*models.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.FindByID(ctx, id)
}

func (s *memoryStore) FindForUpdate(ctx context.Context, id string) (*models.Prescription, error) {
	return s.FindByID(ctx, id)
}

func (s *memoryStore) ReplaceLines(ctx context.Context, id, diagnosis string, lines []models.PrescriptionLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ReplaceLines(ctx, id, diagnosis, lines)
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Delete(ctx, id)
}

func (s *memoryStore) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return s.List(ctx, patientID)
}

func (s *memoryStore) Medicines() inventory.Stock {
	return s.data.Medicines()
}

func (s *memoryStore) List(_ context.Context, patientID string) ([]models.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.list(patientID), nil
}

func (s *memoryStore) SetPDFPath(_ context.Context, id, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.rx[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.PDFPath = path
	return nil
}

func (s *memoryStore) SaveFeedback(_ context.Context, id string, fb models.ProgressFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.rx[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.Feedback = fb
	return nil
}

type fakeDirectory map[string]directory.Contact

func (d fakeDirectory) Contact(_ context.Context, id string) (directory.Contact, error) {
	c, ok := d[id]
	if !ok {
		return directory.Contact{}, fmt.Errorf("%w: %s", directory.ErrUserNotFound, id)
	}
	return c, nil
}

type fakeRenderer struct {
	err   error
	calls atomic.Int32
}

func (r *fakeRenderer) Render(doc render.Document) ([]byte, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(fmt.Sprintf("%%PDF-fake %s %d lines", doc.PrescriptionID, len(doc.Lines))), nil
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

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, msg notify.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
