package service

import (
	"context"
	"errors"

	"github.com/admin-bn/company-controller/internal/agent"
	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

const (
	credentialStateIssued  = "credential_issued"
	credentialStateRevoked = "credential_revoked"

	topicIssueCredential = "issue_credential"
)

// CredentialEvent is the agent's "issue_credential" webhook payload.
type CredentialEvent struct {
	ConnectionID           id.ConnectionID
	CredentialExchangeID   id.CredentialExchangeID
	State                  string
	CredentialDefinitionID string
}

// OnCredentialIssued records the issued credential and retires the employee
// record. The credential record is persisted before anything is deleted.
//
// Redelivery is detected two ways: the stored record already carries this
// exchange id, or the agent no longer knows the exchange because a previous
// delivery deleted it. Neither writes a record. When the stored record
// matches but the employee is still present, the earlier delivery failed
// after persisting, and the retire steps are run again.
func (s *Service) OnCredentialIssued(ctx context.Context, ev CredentialEvent) (err error) {
	if ev.State != credentialStateIssued {
		s.metrics.IncrementWebhook(topicIssueCredential, "ignored")
		return nil
	}
	if ev.ConnectionID.IsNil() || ev.CredentialExchangeID.IsNil() {
		s.logger.ErrorContext(ctx, "credential event without connection or exchange id",
			"connection_id", ev.ConnectionID,
			"credential_exchange_id", ev.CredentialExchangeID,
		)
		s.metrics.IncrementWebhook(topicIssueCredential, "anomaly")
		return nil
	}

	result, err := s.onCredentialIssued(ctx, ev)
	s.metrics.IncrementWebhook(topicIssueCredential, result)
	return err
}

func (s *Service) onCredentialIssued(ctx context.Context, ev CredentialEvent) (result string, err error) {
	conn, err := s.agent.GetConnection(ctx, ev.ConnectionID)
	if err != nil {
		if agent.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "credential issued on unknown connection",
				"connection_id", ev.ConnectionID,
				"credential_exchange_id", ev.CredentialExchangeID,
			)
			return "anomaly", nil
		}
		return "failed", agentFailed(err, "failed to resolve connection")
	}
	employeeID, err := id.ParseEmployeeID(conn.Alias)
	if err != nil {
		s.logger.ErrorContext(ctx, "credential issued on connection without usable alias",
			"connection_id", ev.ConnectionID,
			"alias", conn.Alias,
		)
		return "anomaly", nil
	}

	ctx, span := s.startSpan(ctx, "on_credential_issued", employeeID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, employeeID)
	if err != nil {
		return "failed", err
	}
	defer release()

	existing, err := s.credentials.FindByID(ctx, employeeID)
	switch {
	case err == nil && existing.SameExchange(ev.CredentialExchangeID):
		s.logger.InfoContext(ctx, "duplicate credential issued event",
			"employee_id", employeeID,
			"credential_exchange_id", ev.CredentialExchangeID,
		)
		return s.finishRetire(ctx, employeeID, ev.CredentialExchangeID)
	case err != nil && !errors.Is(err, sentinel.ErrNotFound):
		return "failed", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issued credential")
	}

	exchange, err := s.agent.GetCredentialExchangeRecord(ctx, ev.CredentialExchangeID)
	if err != nil {
		if agent.IsNotFound(err) {
			s.logger.InfoContext(ctx, "credential exchange already cleaned up",
				"employee_id", employeeID,
				"credential_exchange_id", ev.CredentialExchangeID,
			)
			return "duplicate", nil
		}
		return "failed", agentFailed(err, "failed to load credential exchange")
	}
	if exchange.State == credentialStateRevoked {
		// Late redelivery for a credential revoked after a failed exchange cleanup.
		s.logger.WarnContext(ctx, "credential issued event for revoked exchange",
			"employee_id", employeeID,
			"credential_exchange_id", ev.CredentialExchangeID,
		)
		return "stale", nil
	}

	record := &credmodels.Record{
		ID:                     employeeID,
		CredentialRevocationID: exchange.CredentialRevocationID,
		RevocationRegistryID:   exchange.RevocationRegistryID,
		CredentialExchangeID:   ev.CredentialExchangeID,
		ConnectionID:           ev.ConnectionID,
		IssuanceDate:           s.now(ctx),
	}
	if err := s.credentials.Save(ctx, record); err != nil {
		return "failed", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record issued credential")
	}

	if err := s.retire(ctx, employeeID, ev.CredentialExchangeID); err != nil {
		return "failed", err
	}

	s.metrics.IncrementIssued()
	e := events.New(events.CredentialIssued, employeeID, record.IssuanceDate)
	e.ConnectionID = ev.ConnectionID.String()
	e.CredentialExchangeID = ev.CredentialExchangeID.String()
	s.emit(ctx, e)
	s.logger.InfoContext(ctx, "credential issued",
		"employee_id", employeeID,
		"credential_exchange_id", ev.CredentialExchangeID,
	)
	return "handled", nil
}

// finishRetire completes the retire steps for a redelivered event whose
// record is already stored. It is a no-op once the employee is gone.
func (s *Service) finishRetire(ctx context.Context, employeeID id.EmployeeID, exchangeID id.CredentialExchangeID) (string, error) {
	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return "failed", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check employee record")
	}
	if !exists {
		return "duplicate", nil
	}
	if err := s.retire(ctx, employeeID, exchangeID); err != nil {
		return "failed", err
	}
	s.logger.InfoContext(ctx, "employee retired on redelivery",
		"employee_id", employeeID,
		"credential_exchange_id", exchangeID,
	)
	return "retired", nil
}

// retire removes the exchange on the agent, best effort, then the employee.
func (s *Service) retire(ctx context.Context, employeeID id.EmployeeID, exchangeID id.CredentialExchangeID) error {
	if err := s.agent.DeleteCredentialExchangeRecord(ctx, exchangeID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete credential exchange on agent",
			"employee_id", employeeID,
			"credential_exchange_id", exchangeID,
			"retryable", agent.IsRetryable(err),
			"error", err,
		)
	}
	if err := s.employees.Delete(ctx, employeeID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retire employee record")
	}
	return nil
}
