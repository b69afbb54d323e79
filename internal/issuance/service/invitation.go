package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/admin-bn/company-controller/internal/issuance/events"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
)

// Outcome tells a usable invitation apart from one that lost its branding.
type Outcome int

const (
	OutcomeOk Outcome = iota
	// OutcomeOkWithWarning means the invitation is usable but a best-effort
	// decoration step failed; Warning says which.
	OutcomeOkWithWarning
)

func (o Outcome) String() string {
	if o == OutcomeOkWithWarning {
		return "ok_with_warning"
	}
	return "ok"
}

// InvitationResult is the invitation handed back to the operator.
type InvitationResult struct {
	URL          string
	ConnectionID id.ConnectionID
	Outcome      Outcome
	Warning      error
}

// CreateInvitation asks the agent for a connection invitation whose alias is
// the employee id. The employee must exist; nothing is sent to the agent
// otherwise.
func (s *Service) CreateInvitation(ctx context.Context, employeeID id.EmployeeID) (result *InvitationResult, err error) {
	ctx, span := s.startSpan(ctx, "create_invitation", employeeID)
	defer func() { span.End(err) }()

	release, err := s.lock(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	inv, err := s.agent.CreateInvitation(ctx, employeeID)
	if err != nil {
		return nil, agentFailed(err, "failed to create invitation")
	}

	result = &InvitationResult{URL: inv.URL, ConnectionID: inv.ConnectionID, Outcome: OutcomeOk}
	if s.cfg.ImageURL != "" {
		branded, brandErr := injectImageURL(inv.URL, s.cfg.ImageURL)
		if brandErr != nil {
			s.logger.WarnContext(ctx, "failed to add image to invitation url",
				"employee_id", employeeID,
				"error", brandErr,
			)
			result.Outcome = OutcomeOkWithWarning
			result.Warning = dErrors.Wrap(brandErr, dErrors.CodeArtifactGeneration, "invitation image not added")
		} else {
			result.URL = branded
		}
	}

	s.metrics.IncrementInvitation(result.Outcome.String())
	e := events.New(events.InvitationCreated, employeeID, s.now(ctx))
	e.ConnectionID = inv.ConnectionID.String()
	s.emit(ctx, e)
	s.logger.InfoContext(ctx, "invitation created",
		"employee_id", employeeID,
		"connection_id", inv.ConnectionID,
		"outcome", result.Outcome.String(),
	)
	return result, nil
}

// injectImageURL rewrites the base64 JSON invitation that follows the first
// "=" of the URL, adding an imageUrl field. The payload is re-encoded with
// the alphabet it was decoded with.
func injectImageURL(invitationURL, imageURL string) (string, error) {
	prefix, payload, ok := strings.Cut(invitationURL, "=")
	if !ok || payload == "" {
		return "", errors.New("invitation url carries no encoded payload")
	}

	enc := base64.StdEncoding
	raw, err := enc.DecodeString(payload)
	if err != nil {
		enc = base64.URLEncoding
		if raw, err = enc.DecodeString(payload); err != nil {
			return "", fmt.Errorf("decode invitation payload: %w", err)
		}
	}

	var invitation map[string]any
	if err := json.Unmarshal(raw, &invitation); err != nil {
		return "", fmt.Errorf("parse invitation payload: %w", err)
	}
	invitation["imageUrl"] = imageURL

	var out bytes.Buffer
	jsonEnc := json.NewEncoder(&out)
	jsonEnc.SetEscapeHTML(false)
	if err := jsonEnc.Encode(invitation); err != nil {
		return "", fmt.Errorf("encode invitation payload: %w", err)
	}
	return prefix + "=" + enc.EncodeToString(bytes.TrimRight(out.Bytes(), "\n")), nil
}
