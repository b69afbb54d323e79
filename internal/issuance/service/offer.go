package service

import (
	"context"

	"github.com/admin-bn/company-controller/internal/agent"
	"github.com/admin-bn/company-controller/internal/employee/models"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	id "github.com/admin-bn/company-controller/pkg/domain"
)

// SendOffer offers the employee's credential over an established connection.
func (s *Service) SendOffer(ctx context.Context, employeeID id.EmployeeID, connectionID id.ConnectionID) (err error) {
	ctx, span := s.startSpan(ctx, "send_offer", employeeID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, employeeID)
	if err != nil {
		return err
	}
	defer release()

	return s.sendOffer(ctx, employeeID, connectionID)
}

func (s *Service) sendOffer(ctx context.Context, employeeID id.EmployeeID, connectionID id.ConnectionID) error {
	e, err := s.requireEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	return s.offerSnapshot(ctx, employeeID, connectionID, e.Snapshot())
}

// offerSnapshot submits an offer built from attributes captured earlier, so
// the offer no longer depends on the employee record still existing.
func (s *Service) offerSnapshot(ctx context.Context, employeeID id.EmployeeID, connectionID id.ConnectionID, snap models.AttributeSnapshot) error {
	attrs := snap.Attributes()
	offer := &agent.CredentialOffer{
		ConnectionID:           connectionID,
		CredentialDefinitionID: s.cfg.CredentialDefinitionID,
		Attributes:             make([]agent.OfferAttribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		offer.Attributes = append(offer.Attributes, agent.OfferAttribute{Name: a.Name, Value: a.Value})
	}

	if err := s.agent.SendCredentialOffer(ctx, offer); err != nil {
		return agentFailed(err, "failed to send credential offer")
	}

	s.metrics.IncrementOfferSent()
	ev := events.New(events.OfferSent, employeeID, s.now(ctx))
	ev.ConnectionID = connectionID.String()
	s.emit(ctx, ev)
	s.logger.InfoContext(ctx, "credential offer sent", "employee_id", employeeID, "connection_id", connectionID)
	return nil
}
