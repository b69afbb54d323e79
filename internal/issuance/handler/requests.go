package handler

import (
	"github.com/admin-bn/company-controller/internal/issuance/service"
	id "github.com/admin-bn/company-controller/pkg/domain"
)

// ConnectionWebhook is the body of /topic/connections. Unlisted fields are ignored.
type ConnectionWebhook struct {
	Alias        string `json:"alias"`
	ConnectionID string `json:"connection_id"`
	State        string `json:"state"`
}

func (w *ConnectionWebhook) ToEvent() service.ConnectionEvent {
	return service.ConnectionEvent{
		Alias:        w.Alias,
		ConnectionID: id.ConnectionID(w.ConnectionID),
		State:        w.State,
	}
}

// IssueCredentialWebhook is the body of /topic/issue_credential.
type IssueCredentialWebhook struct {
	ConnectionID           string `json:"connection_id"`
	CredentialExchangeID   string `json:"credential_exchange_id"`
	State                  string `json:"state"`
	CredentialDefinitionID string `json:"credential_definition_id"`
}

func (w *IssueCredentialWebhook) ToEvent() service.CredentialEvent {
	return service.CredentialEvent{
		ConnectionID:           id.ConnectionID(w.ConnectionID),
		CredentialExchangeID:   id.CredentialExchangeID(w.CredentialExchangeID),
		State:                  w.State,
		CredentialDefinitionID: w.CredentialDefinitionID,
	}
}
