package service

import (
	"context"
	"errors"

	"github.com/admin-bn/company-controller/internal/agent"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// Revoke revokes the employee's credential on the agent and then removes the
// local record. Without a record it does nothing. When the agent call fails
// the record is kept so the revocation can be retried.
func (s *Service) Revoke(ctx context.Context, employeeID id.EmployeeID) (err error) {
	ctx, span := s.startSpan(ctx, "revoke", employeeID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, employeeID)
	if err != nil {
		return err
	}
	defer release()

	return s.revoke(ctx, employeeID)
}

func (s *Service) revoke(ctx context.Context, employeeID id.EmployeeID) error {
	record, err := s.credentials.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issued credential")
	}

	err = s.agent.RevokeCredential(ctx, &agent.RevocationRequest{
		CredentialRevocationID: record.CredentialRevocationID,
		RevocationRegistryID:   record.RevocationRegistryID,
		Publish:                true,
	})
	if err != nil {
		return agentFailed(err, "failed to revoke credential")
	}

	if err := s.credentials.Delete(ctx, employeeID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete issued credential")
	}

	s.metrics.IncrementRevoked()
	s.emit(ctx, events.New(events.CredentialRevoked, employeeID, s.now(ctx)))
	s.logger.InfoContext(ctx, "credential revoked",
		"employee_id", employeeID,
		"revocation_registry_id", record.RevocationRegistryID,
	)
	return nil
}
