package service

import (
	"context"
	"errors"

	"github.com/admin-bn/company-controller/internal/employee/models"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// Resend re-issues a credential to an employee who already holds one, over
// the connection created for the first issuance. The old credential is
// revoked on a best-effort basis. The employee record is recreated only as
// the attribute source for the offer and removed once the offer returns.
func (s *Service) Resend(ctx context.Context, e *models.Employee) (err error) {
	ctx, span := s.startSpan(ctx, "resend", e.ID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, e.ID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.resend(ctx, e); err != nil {
		s.metrics.IncrementResend(string(dErrors.CodeOf(err)))
		return err
	}
	s.metrics.IncrementResend("ok")
	return nil
}

func (s *Service) resend(ctx context.Context, e *models.Employee) error {
	if _, err := s.credentials.FindByID(ctx, e.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainErr(dErrors.CodeNotFound, ErrIssuedCredentialNotFound)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issued credential")
	}

	// A leftover employee row means an earlier issuance never finished
	// retiring; fail before the live credential is revoked.
	exists, err := s.employees.Exists(ctx, e.ID)
	if err != nil {
		return wrapEmployeeErr(err)
	}
	if exists {
		return domainErr(dErrors.CodeConflict, ErrEmployeeAlreadyExists)
	}

	connectionID, err := s.findConnection(ctx, e.ID)
	if err != nil {
		return err
	}

	if err := s.revoke(ctx, e.ID); err != nil {
		s.logger.WarnContext(ctx, "revocation before resend failed, continuing",
			"employee_id", e.ID,
			"error", err,
		)
	}

	if err := s.employees.Create(ctx, e); err != nil {
		return wrapEmployeeErr(err)
	}
	offerErr := s.sendOffer(ctx, e.ID, connectionID)
	if err := s.employees.Delete(ctx, e.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove resend employee record",
			"employee_id", e.ID,
			"error", err,
		)
	}
	if offerErr != nil {
		return offerErr
	}

	ev := events.New(events.CredentialResent, e.ID, s.now(ctx))
	ev.ConnectionID = connectionID.String()
	s.emit(ctx, ev)
	return nil
}

// findConnection returns the first connection whose alias equals the
// employee id exactly. The agent's alias filter is not trusted on its own.
func (s *Service) findConnection(ctx context.Context, employeeID id.EmployeeID) (id.ConnectionID, error) {
	conns, err := s.agent.GetConnectionsByAlias(ctx, employeeID)
	if err != nil {
		return "", agentFailed(err, "failed to list connections")
	}
	for _, c := range conns {
		if employeeID.MatchesAlias(c.Alias) && !c.ConnectionID.IsNil() {
			return c.ConnectionID, nil
		}
	}
	return "", domainErr(dErrors.CodeNotFound, ErrConnectionNotFound)
}
