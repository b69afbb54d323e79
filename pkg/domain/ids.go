// Package domain provides the typed identifiers shared by the employee,
// credential and issuance modules so that an employee id cannot be passed
// where an agent connection id is expected.
package domain

import (
	"strings"

	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
)

type (
	// EmployeeID is the correlation key. The same string is the employee
	// record key, the issued credential record key and the alias of the
	// employee's agent connection.
	EmployeeID string
	// ConnectionID identifies a DIDComm connection on the agent.
	ConnectionID string
	// CredentialExchangeID identifies one issue-credential exchange on the agent.
	CredentialExchangeID string
)

// MaxEmployeeIDLength bounds ids accepted at the API boundary.
const MaxEmployeeIDLength = 50

// ParseEmployeeID validates an employee id taken from an API input.
// The value is not trimmed or case-folded: correlation is exact equality.
func ParseEmployeeID(s string) (EmployeeID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "employee id cannot be empty")
	}
	if len(s) > MaxEmployeeIDLength {
		return "", dErrors.New(dErrors.CodeValidation, "employee id is too long")
	}
	if strings.TrimSpace(s) != s {
		return "", dErrors.New(dErrors.CodeValidation, "employee id must not have leading or trailing whitespace")
	}
	return EmployeeID(s), nil
}

func (id EmployeeID) String() string           { return string(id) }
func (id ConnectionID) String() string         { return string(id) }
func (id CredentialExchangeID) String() string { return string(id) }

func (id EmployeeID) IsNil() bool           { return id == "" }
func (id ConnectionID) IsNil() bool         { return id == "" }
func (id CredentialExchangeID) IsNil() bool { return id == "" }

// MatchesAlias reports whether a connection alias correlates to this employee.
// Only exact equality counts; prefixes, case variants and substrings do not.
func (id EmployeeID) MatchesAlias(alias string) bool {
	return id != "" && string(id) == alias
}
