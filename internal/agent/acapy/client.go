// Package acapy implements agent.Client against the ACA-Py admin API.
package acapy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/admin-bn/company-controller/internal/agent"
	"github.com/admin-bn/company-controller/internal/platform/tracer"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/circuit"
)

// APIKeyHeader carries the admin API key on every request.
const APIKeyHeader = "X-API-KEY"

const (
	opCreateInvitation = "create_invitation"
	opSendOffer        = "send_offer"
	opGetConnection    = "get_connection"
	opListConnections  = "list_connections"
	opGetExchange      = "get_exchange_record"
	opDeleteExchange   = "delete_exchange_record"
	opRevoke           = "revoke_credential"
	opPing             = "ping"

	maxErrorBody = 512
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    HTTPDoer
	tracer  tracer.Tracer
	metrics *Metrics
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Client)

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithBreaker fails calls fast while the agent is considered down.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		http:    httpClient,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateInvitation(ctx context.Context, alias id.EmployeeID) (*agent.Invitation, error) {
	var resp invitationResponse
	query := url.Values{"alias": {alias.String()}}
	if err := c.do(ctx, opCreateInvitation, http.MethodPost, "/connections/create-invitation", query, struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.InvitationURL == "" {
		return nil, agent.NewError(agent.CategoryBadData, opCreateInvitation, "response has no invitation_url", nil)
	}
	return &agent.Invitation{
		ConnectionID: id.ConnectionID(resp.ConnectionID),
		URL:          resp.InvitationURL,
	}, nil
}

func (c *Client) SendCredentialOffer(ctx context.Context, offer *agent.CredentialOffer) error {
	attrs := make([]previewAttribute, 0, len(offer.Attributes))
	for _, a := range offer.Attributes {
		attrs = append(attrs, previewAttribute{Name: a.Name, Value: a.Value})
	}
	body := offerRequest{
		ConnectionID: offer.ConnectionID.String(),
		CredDefID:    offer.CredentialDefinitionID,
		Comment:      offer.Comment,
		AutoIssue:    true,
		AutoRemove:   false,
		Trace:        false,
		CredentialPreview: credentialPreview{
			Type:       credentialPreviewType,
			Attributes: attrs,
		},
	}
	return c.do(ctx, opSendOffer, http.MethodPost, "/issue-credential/send-offer", nil, body, nil)
}

func (c *Client) GetConnection(ctx context.Context, connectionID id.ConnectionID) (*agent.Connection, error) {
	var rec connectionRecord
	path := "/connections/" + url.PathEscape(connectionID.String())
	if err := c.do(ctx, opGetConnection, http.MethodGet, path, nil, nil, &rec); err != nil {
		return nil, err
	}
	return toConnection(rec), nil
}

// GetConnectionsByAlias returns the agent's answer unfiltered; callers
// apply exact alias matching.
func (c *Client) GetConnectionsByAlias(ctx context.Context, alias id.EmployeeID) ([]agent.Connection, error) {
	var resp connectionsResponse
	query := url.Values{"alias": {alias.String()}}
	if err := c.do(ctx, opListConnections, http.MethodGet, "/connections", query, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]agent.Connection, 0, len(resp.Results))
	for _, rec := range resp.Results {
		out = append(out, *toConnection(rec))
	}
	return out, nil
}

func (c *Client) GetCredentialExchangeRecord(ctx context.Context, exchangeID id.CredentialExchangeID) (*agent.CredentialExchangeRecord, error) {
	var rec exchangeRecord
	path := "/issue-credential/records/" + url.PathEscape(exchangeID.String())
	if err := c.do(ctx, opGetExchange, http.MethodGet, path, nil, nil, &rec); err != nil {
		return nil, err
	}
	return &agent.CredentialExchangeRecord{
		CredentialExchangeID:   id.CredentialExchangeID(rec.CredentialExchangeID),
		ConnectionID:           id.ConnectionID(rec.ConnectionID),
		CredentialRevocationID: rec.RevocationID,
		RevocationRegistryID:   rec.RevocRegID,
		State:                  rec.State,
		CreatedAt:              rec.CreatedAt,
	}, nil
}

func (c *Client) DeleteCredentialExchangeRecord(ctx context.Context, exchangeID id.CredentialExchangeID) error {
	path := "/issue-credential/records/" + url.PathEscape(exchangeID.String())
	return c.do(ctx, opDeleteExchange, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) RevokeCredential(ctx context.Context, req *agent.RevocationRequest) error {
	body := revokeRequest{
		CredRevID: req.CredentialRevocationID,
		RevRegID:  req.RevocationRegistryID,
		Publish:   req.Publish,
	}
	return c.do(ctx, opRevoke, http.MethodPost, "/revocation/revoke", nil, body, nil)
}

// Ping checks the agent's liveness endpoint. It is used as a readiness check.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, opPing, http.MethodGet, "/status/live", nil, nil, nil)
}

func toConnection(rec connectionRecord) *agent.Connection {
	return &agent.Connection{
		ConnectionID: id.ConnectionID(rec.ConnectionID),
		Alias:        rec.Alias,
		State:        rec.State,
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "agent."+op,
		attribute.String("agent.operation", op),
		attribute.String("http.method", method),
	)
	start := time.Now()
	defer func() {
		c.metrics.observe(op, outcome(err), time.Since(start).Seconds())
		span.End(err)
	}()

	if c.breaker != nil && !c.breaker.Allow() {
		return agent.NewError(agent.CategoryOutage, op, "circuit open", nil)
	}

	err = c.roundTrip(ctx, op, method, path, query, body, out)
	c.recordOutcome(op, err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return agent.NewError(agent.CategoryInternal, op, "failed to marshal request", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return agent.NewError(agent.CategoryInternal, op, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return agent.NewError(agent.CategoryTimeout, op, "request timeout", err)
		}
		return agent.NewError(agent.CategoryOutage, op, "failed to execute request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return agent.NewError(agent.CategoryBadData, op, "failed to read response", err)
	}

	if aerr := classifyStatus(op, resp.StatusCode, respBody); aerr != nil {
		return aerr
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return agent.NewError(agent.CategoryBadData, op, "failed to decode response", err)
	}
	return nil
}

func classifyStatus(op string, status int, body []byte) *agent.Error {
	if status >= 200 && status < 300 {
		return nil
	}
	var e *agent.Error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = agent.NewError(agent.CategoryAuthentication, op, fmt.Sprintf("authentication failed: %d", status), nil)
	case status == http.StatusNotFound:
		e = agent.NewError(agent.CategoryNotFound, op, "record not found", nil)
	case status == http.StatusTooManyRequests:
		e = agent.NewError(agent.CategoryRateLimited, op, "rate limit exceeded", nil)
	case status >= 500:
		e = agent.NewError(agent.CategoryOutage, op, fmt.Sprintf("agent unavailable: %d", status), nil)
	default:
		e = agent.NewError(agent.CategoryRejected, op, fmt.Sprintf("rejected with %d: %s", status, snippet(body)), nil)
	}
	e.StatusCode = status
	return e
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}

// recordOutcome feeds the breaker. Only transport-level trouble counts as a
// failure; a 404 or a rejected payload means the agent is up.
func (c *Client) recordOutcome(op string, err error) {
	if c.breaker == nil {
		return
	}
	switch agent.CategoryOf(err) {
	case agent.CategoryTimeout, agent.CategoryOutage:
		if change := c.breaker.RecordFailure(); change.Opened {
			c.metrics.breakerOpened()
			c.logger.Warn("agent circuit opened", "breaker", c.breaker.Name(), "operation", op, "error", err)
		}
		return
	}
	if change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("agent circuit closed", "breaker", c.breaker.Name())
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(agent.CategoryOf(err))
}

var _ agent.Client = (*Client)(nil)
