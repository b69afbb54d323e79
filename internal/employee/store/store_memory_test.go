package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/admin-bn/company-controller/internal/employee/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
	"github.com/admin-bn/company-controller/pkg/testutil"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func employee(employeeID string) *models.Employee {
	return &models.Employee{ID: id.EmployeeID(employeeID), FirstName: "Ada", LastName: "Lovelace",
		FirmName: "ACME", FirmStreet: "Main 1", FirmPostalCode: "10115", FirmCity: "Berlin"}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	s.Require().NoError(s.store.Create(s.ctx, employee("emp-1")))

	got, err := s.store.FindByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal("Ada", got.FirstName)

	exists, err := s.store.Exists(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.True(exists)

	s.ErrorIs(s.store.Create(s.ctx, employee("emp-1")), sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestReturnedRecordsAreCopies() {
	s.Require().NoError(s.store.Create(s.ctx, employee("emp-1")))
	got, err := s.store.FindByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	got.FirstName = "Mutated"

	again, err := s.store.FindByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal("Ada", again.FirstName)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	s.ErrorIs(s.store.Update(s.ctx, employee("emp-9")), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(s.ctx, employee("emp-1")))
	changed := employee("emp-1")
	changed.FirmCity = "Hamburg"
	s.Require().NoError(s.store.Update(s.ctx, changed))

	got, err := s.store.FindByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal("Hamburg", got.FirmCity)
}

func (s *InMemoryStoreSuite) TestDeleteIsIdempotent() {
	s.Require().NoError(s.store.Create(s.ctx, employee("emp-1")))
	s.Require().NoError(s.store.Delete(s.ctx, "emp-1"))
	s.Require().NoError(s.store.Delete(s.ctx, "emp-1"))

	_, err := s.store.FindByID(s.ctx, "emp-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListIsSorted() {
	for _, e := range []string{"emp-3", "emp-1", "emp-2"} {
		s.Require().NoError(s.store.Create(s.ctx, employee(e)))
	}
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(id.EmployeeID("emp-1"), list[0].ID)
	s.Equal(id.EmployeeID("emp-3"), list[2].ID)
}

func (s *InMemoryStoreSuite) TestConcurrentCreateSingleWinner() {
	result := testutil.RunConcurrent(20, func(int) error {
		return s.store.Create(s.ctx, employee("emp-race"))
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(19), result.Conflicts)
}
