package store

import (
	"context"
	"sort"
	"sync"

	"github.com/admin-bn/company-controller/internal/credential/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// InMemoryStore holds issued credential records keyed by employee id.
// Save replaces an existing record for the same id; Delete of an unknown id
// succeeds; FindByID returns sentinel.ErrNotFound.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.EmployeeID]models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.EmployeeID]models.Record)}
}

func (s *InMemoryStore) Exists(_ context.Context, employeeID id.EmployeeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[employeeID]
	return ok, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, employeeID id.EmployeeID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) Save(_ context.Context, r *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = *r
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, employeeID id.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, employeeID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, 0, len(s.records))
	for _, r := range s.records {
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
