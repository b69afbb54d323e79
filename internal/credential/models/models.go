package models

import (
	"time"

	id "github.com/admin-bn/company-controller/pkg/domain"
)

// Record is the local proof that a credential was issued to an employee and
// carries what is needed to revoke it later. ID equals the employee id.
type Record struct {
	ID                     id.EmployeeID
	CredentialRevocationID string
	RevocationRegistryID   string
	// CredentialExchangeID and ConnectionID identify the agent exchange that
	// produced the record. A redelivered issuance event carries the same
	// exchange id and is recognized as a duplicate.
	CredentialExchangeID id.CredentialExchangeID
	ConnectionID         id.ConnectionID
	IssuanceDate         time.Time
}

// SameExchange reports whether the record was produced by the given exchange.
func (r *Record) SameExchange(exchangeID id.CredentialExchangeID) bool {
	return r.CredentialExchangeID != "" && r.CredentialExchangeID == exchangeID
}

// Response is the JSON shape of an issued credential.
type Response struct {
	ID                     string    `json:"id"`
	CredentialRevocationID string    `json:"credentialRevocationId"`
	RevocationRegistryID   string    `json:"revocationRegistryId"`
	IssuanceDate           time.Time `json:"issuanceDate"`
}

func ToResponse(r *Record) Response {
	return Response{
		ID:                     r.ID.String(),
		CredentialRevocationID: r.CredentialRevocationID,
		RevocationRegistryID:   r.RevocationRegistryID,
		IssuanceDate:           r.IssuanceDate.UTC(),
	}
}
