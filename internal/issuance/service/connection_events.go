package service

import (
	"context"
	"errors"

	id "github.com/admin-bn/company-controller/pkg/domain"
)

const (
	connectionStateResponse = "response"

	topicConnections = "connections"
)

// ConnectionEvent is the agent's "connections" webhook payload.
type ConnectionEvent struct {
	Alias        string
	ConnectionID id.ConnectionID
	State        string
}

// OnConnectionStateChanged sends the credential offer once the holder's wallet
// has answered the invitation. Events for employees that no longer exist are
// logged and dropped.
func (s *Service) OnConnectionStateChanged(ctx context.Context, ev ConnectionEvent) (err error) {
	if ev.State != connectionStateResponse {
		s.metrics.IncrementWebhook(topicConnections, "ignored")
		return nil
	}

	employeeID, parseErr := id.ParseEmployeeID(ev.Alias)
	if parseErr != nil || ev.ConnectionID.IsNil() {
		s.logger.ErrorContext(ctx, "connection event without usable alias or connection id",
			"alias", ev.Alias,
			"connection_id", ev.ConnectionID,
		)
		s.metrics.IncrementWebhook(topicConnections, "anomaly")
		return nil
	}

	ctx, span := s.startSpan(ctx, "on_connection_response", employeeID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, employeeID)
	if err != nil {
		s.metrics.IncrementWebhook(topicConnections, "failed")
		return err
	}
	defer release()

	if err := s.sendOffer(ctx, employeeID, ev.ConnectionID); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			s.logger.ErrorContext(ctx, "connection accepted for unknown employee",
				"employee_id", employeeID,
				"connection_id", ev.ConnectionID,
			)
			s.metrics.IncrementWebhook(topicConnections, "anomaly")
			return nil
		}
		s.metrics.IncrementWebhook(topicConnections, "failed")
		return err
	}
	s.metrics.IncrementWebhook(topicConnections, "handled")
	return nil
}
