// Package handler exposes issued credentials and receives the agent's
// webhook deliveries.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	"github.com/admin-bn/company-controller/internal/issuance/service"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/httputil"
	"github.com/admin-bn/company-controller/pkg/requestcontext"
)

type Service interface {
	ListIssued(ctx context.Context) ([]*credmodels.Record, error)
	GetIssued(ctx context.Context, employeeID id.EmployeeID) (*credmodels.Record, error)
	Revoke(ctx context.Context, employeeID id.EmployeeID) error
	OnConnectionStateChanged(ctx context.Context, ev service.ConnectionEvent) error
	OnCredentialIssued(ctx context.Context, ev service.CredentialEvent) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the issued-credential API.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/issued-credential", h.HandleList)
	r.Get("/api/issued-credential/{id}", h.HandleGet)
	r.Delete("/api/issued-credential/{id}", h.HandleRevoke)
}

// RegisterWebhooks mounts the topics the agent posts to.
func (h *Handler) RegisterWebhooks(r chi.Router) {
	r.Post("/topic/connections", h.HandleConnectionsWebhook)
	r.Post("/topic/issue_credential", h.HandleIssueCredentialWebhook)
	r.Post("/topic/revocation_registry", h.HandleAcknowledge)
	r.Post("/topic/issuer_cred_rev", h.HandleAcknowledge)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListIssued(r.Context())
	if err != nil {
		h.fail(w, r, "list issued credentials failed", err)
		return
	}
	out := make([]credmodels.Response, 0, len(records))
	for _, rec := range records {
		out = append(out, credmodels.ToResponse(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.GetIssued(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, "get issued credential failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credmodels.ToResponse(rec))
}

// HandleRevoke revokes the credential on the agent and forgets it locally.
// Unknown ids succeed.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Revoke(r.Context(), employeeID); err != nil {
		h.fail(w, r, "revoke credential failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleConnectionsWebhook(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[ConnectionWebhook](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.OnConnectionStateChanged(r.Context(), req.ToEvent()); err != nil {
		h.fail(w, r, "connections webhook failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleIssueCredentialWebhook(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[IssueCredentialWebhook](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.OnCredentialIssued(r.Context(), req.ToEvent()); err != nil {
		h.fail(w, r, "issue_credential webhook failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAcknowledge answers topics the controller subscribes to but does not act on.
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (id.EmployeeID, bool) {
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid credential id"))
		return "", false
	}
	return employeeID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	httputil.WriteError(w, err)
}
