package service

import (
	"errors"

	"github.com/admin-bn/company-controller/internal/agent"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// Causes carried inside the domain errors returned by the coordinators.
// Match them with errors.Is; the domain code decides the HTTP status.
var (
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrEmployeeAlreadyExists    = errors.New("employee already exists")
	ErrIssuedCredentialNotFound = errors.New("issued credential not found")
	ErrConnectionNotFound       = errors.New("connection not found")
)

func domainErr(code dErrors.Code, cause error) error {
	return &dErrors.Error{Code: code, Message: cause.Error(), Err: cause}
}

func wrapEmployeeErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return domainErr(dErrors.CodeNotFound, ErrEmployeeNotFound)
	case errors.Is(err, sentinel.ErrConflict):
		return domainErr(dErrors.CodeConflict, ErrEmployeeAlreadyExists)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "employee store failure")
}

// agentFailed wraps an *agent.Error so that callers see CodeAgentCallFailed
// while errors.As can still reach the agent category.
func agentFailed(err error, action string) error {
	return &dErrors.Error{
		Code:    dErrors.CodeAgentCallFailed,
		Message: action + ": " + string(agent.CategoryOf(err)),
		Err:     err,
	}
}
