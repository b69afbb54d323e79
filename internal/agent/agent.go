// Package agent defines the controller's view of the SSI agent: the calls it
// makes, the records it reads back and how failures are classified.
package agent

import (
	"context"

	id "github.com/admin-bn/company-controller/pkg/domain"
)

// Client is the set of agent admin API operations the controller uses.
// Every method returns an *Error on failure.
type Client interface {
	CreateInvitation(ctx context.Context, alias id.EmployeeID) (*Invitation, error)
	SendCredentialOffer(ctx context.Context, offer *CredentialOffer) error
	GetConnection(ctx context.Context, connectionID id.ConnectionID) (*Connection, error)
	GetConnectionsByAlias(ctx context.Context, alias id.EmployeeID) ([]Connection, error)
	GetCredentialExchangeRecord(ctx context.Context, exchangeID id.CredentialExchangeID) (*CredentialExchangeRecord, error)
	DeleteCredentialExchangeRecord(ctx context.Context, exchangeID id.CredentialExchangeID) error
	RevokeCredential(ctx context.Context, req *RevocationRequest) error
}

// Invitation is a freshly created connection invitation.
type Invitation struct {
	ConnectionID id.ConnectionID
	URL          string
}

// Connection is the agent's connection record. The alias is set to the
// employee id when the invitation is created.
type Connection struct {
	ConnectionID id.ConnectionID
	Alias        string
	State        string
}

type OfferAttribute struct {
	Name  string
	Value string
}

// CredentialOffer is an offer bound to one connection and one credential
// definition. Attribute order is preserved on the wire.
type CredentialOffer struct {
	ConnectionID           id.ConnectionID
	CredentialDefinitionID string
	Attributes             []OfferAttribute
	Comment                string
}

// CredentialExchangeRecord holds the revocation coordinates of an issued credential.
type CredentialExchangeRecord struct {
	CredentialExchangeID   id.CredentialExchangeID
	ConnectionID           id.ConnectionID
	CredentialRevocationID string
	RevocationRegistryID   string
	State                  string
	CreatedAt              string
}

type RevocationRequest struct {
	CredentialRevocationID string
	RevocationRegistryID   string
	Publish                bool
}
