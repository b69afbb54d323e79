package store

import (
	"context"
	"sort"
	"sync"

	"github.com/admin-bn/company-controller/internal/employee/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// Error contract shared by both implementations:
//   - FindByID and Update return sentinel.ErrNotFound for unknown ids
//   - Create returns sentinel.ErrConflict when the id is already taken
//   - Delete of an unknown id succeeds

// InMemoryStore keeps employees in a map. Records are copied on the way in
// and out so callers never share memory with the store.
type InMemoryStore struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]models.Employee
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{employees: make(map[id.EmployeeID]models.Employee)}
}

func (s *InMemoryStore) Exists(_ context.Context, employeeID id.EmployeeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.employees[employeeID]
	return ok, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &e, nil
}

func (s *InMemoryStore) Create(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; ok {
		return sentinel.ErrConflict
	}
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, employeeID id.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.employees, employeeID)
	return nil
}

// List returns all employees ordered by id.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
