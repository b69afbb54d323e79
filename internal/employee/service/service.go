// Package service manages employee records awaiting a credential.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/admin-bn/company-controller/internal/employee/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// Store persists employee records.
type Store interface {
	Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error)
	FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) error
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, employeeID id.EmployeeID) error
	List(ctx context.Context) ([]*models.Employee, error)
}

// Revoker revokes the credential issued to an employee, if there is one.
type Revoker interface {
	Revoke(ctx context.Context, employeeID id.EmployeeID) error
}

type Service struct {
	store   Store
	revoker Revoker
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRevoker enables credential revocation on Delete.
func WithRevoker(r Revoker) Option {
	return func(s *Service) {
		s.revoker = r
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, e *models.Employee) error {
	if err := s.store.Create(ctx, e); err != nil {
		return wrapEmployeeErr(err, "failed to create employee")
	}
	s.logger.InfoContext(ctx, "employee created", "employee_id", e.ID)
	return nil
}

// CreateBatch creates every employee whose id is not taken yet. Existing ids
// are skipped with a warning and reported back to the caller.
func (s *Service) CreateBatch(ctx context.Context, employees []*models.Employee) (created, skipped []id.EmployeeID, err error) {
	for _, e := range employees {
		if err := s.store.Create(ctx, e); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				s.logger.WarnContext(ctx, "employee already exists, skipping", "employee_id", e.ID)
				skipped = append(skipped, e.ID)
				continue
			}
			return created, skipped, dErrors.Wrap(err, dErrors.CodeInternal, "failed to import employees")
		}
		created = append(created, e.ID)
	}
	s.logger.InfoContext(ctx, "employee batch imported", "created", len(created), "skipped", len(skipped))
	return created, skipped, nil
}

func (s *Service) Update(ctx context.Context, e *models.Employee) error {
	if err := s.store.Update(ctx, e); err != nil {
		return wrapEmployeeErr(err, "failed to update employee")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	e, err := s.store.FindByID(ctx, employeeID)
	if err != nil {
		return nil, wrapEmployeeErr(err, "failed to load employee")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Employee, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}
	return list, nil
}

// Delete removes the employee record. With revoke set, any credential issued
// to the same id is revoked first; a failed revocation aborts the delete.
// Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, employeeID id.EmployeeID, revoke bool) error {
	if revoke && s.revoker != nil {
		if err := s.revoker.Revoke(ctx, employeeID); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, employeeID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete employee")
	}
	s.logger.InfoContext(ctx, "employee deleted", "employee_id", employeeID, "revoked", revoke && s.revoker != nil)
	return nil
}

func wrapEmployeeErr(err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "employee not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "employee already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
