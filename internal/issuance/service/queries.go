package service

import (
	"context"
	"errors"

	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

func (s *Service) ListIssued(ctx context.Context) ([]*credmodels.Record, error) {
	records, err := s.credentials.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list issued credentials")
	}
	return records, nil
}

func (s *Service) GetIssued(ctx context.Context, employeeID id.EmployeeID) (*credmodels.Record, error) {
	record, err := s.credentials.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainErr(dErrors.CodeNotFound, ErrIssuedCredentialNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issued credential")
	}
	return record, nil
}
