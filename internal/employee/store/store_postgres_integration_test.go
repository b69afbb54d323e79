//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
	"github.com/admin-bn/company-controller/pkg/testutil"
	"github.com/admin-bn/company-controller/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
}

func (s *PostgresStoreSuite) TestLifecycle() {
	s.Require().NoError(s.store.Create(s.ctx, employee("emp-1")))
	s.ErrorIs(s.store.Create(s.ctx, employee("emp-1")), sentinel.ErrConflict)

	exists, err := s.store.Exists(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.True(exists)

	changed := employee("emp-1")
	changed.FirmSubject = "Engineering"
	s.Require().NoError(s.store.Update(s.ctx, changed))

	got, err := s.store.FindByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal("Engineering", got.FirmSubject)

	s.Require().NoError(s.store.Delete(s.ctx, "emp-1"))
	s.Require().NoError(s.store.Delete(s.ctx, "emp-1"))
	_, err = s.store.FindByID(s.ctx, "emp-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(s.ctx, changed), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrdered() {
	for _, e := range []string{"emp-b", "emp-a"} {
		s.Require().NoError(s.store.Create(s.ctx, employee(e)))
	}
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("emp-a", list[0].ID.String())
}

func (s *PostgresStoreSuite) TestConcurrentCreateSingleWinner() {
	result := testutil.RunConcurrent(10, func(int) error {
		return s.store.Create(s.ctx, employee("emp-race"))
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
}
