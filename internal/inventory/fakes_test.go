package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

type memoryStore struct {
	mu   sync.Mutex
	rows map[string]*models.Medicine
}

func newMemoryStore(meds ...models.Medicine) *memoryStore {
	s := &memoryStore{rows: map[string]*models.Medicine{}}
	for i := range meds {
		m := meds[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		s.rows[m.ID] = &m
	}
	return s
}

func (s *memoryStore) quantity(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if strings.EqualFold(m.Name, name) {
			return m.Quantity
		}
	}
	return -1
}

func (s *memoryStore) FindByName(_ context.Context, name string) (*models.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if m.IsActive && strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			c := *m
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, name)
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*models.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	c := *m
	return &c, nil
}

func (s *memoryStore) Decrement(_ context.Context, id string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok || m.Quantity < qty {
		return false, nil
	}
	m.Quantity -= qty
	return true, nil
}

func (s *memoryStore) Increment(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	m.Quantity += qty
	return nil
}

func (s *memoryStore) List(_ context.Context, f ListFilter) ([]models.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Medicine
	for _, m := range s.rows {
		if !f.IncludeInactive && !m.IsActive {
			continue
		}
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.LowStock && !m.IsLowStock() {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) Create(_ context.Context, m *models.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if strings.EqualFold(existing.Name, m.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicateMedicine, m.Name)
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	c := *m
	s.rows[m.ID] = &c
	return nil
}

func (s *memoryStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	for k, v := range fields {
		switch k {
		case "name":
			m.Name = v.(string)
		case "manufacturer":
			m.Manufacturer = v.(string)
		case "category":
			m.Category = v.(models.MedicineCategory)
		case "alert_level":
			m.AlertLevel = v.(int)
		case "min_stock_threshold":
			m.MinStockThreshold = v.(int)
		case "default_dosage":
			m.DefaultDosage = v.(string)
		case "default_duration":
			m.DefaultDuration = v.(int)
		case "default_instructions":
			m.DefaultInstructions = v.(string)
		case "is_active":
			m.IsActive = v.(bool)
		}
	}
	return nil
}

func (s *memoryStore) Names(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.rows {
		out = append(out, m.Name)
	}
	return out, nil
}
