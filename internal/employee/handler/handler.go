package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/admin-bn/company-controller/internal/employee/models"
	issuance "github.com/admin-bn/company-controller/internal/issuance/service"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/httputil"
	"github.com/admin-bn/company-controller/pkg/requestcontext"
)

// Service is the employee CRUD surface.
type Service interface {
	Create(ctx context.Context, e *models.Employee) error
	CreateBatch(ctx context.Context, employees []*models.Employee) (created, skipped []id.EmployeeID, err error)
	Update(ctx context.Context, e *models.Employee) error
	Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
	Delete(ctx context.Context, employeeID id.EmployeeID, revoke bool) error
}

// Issuer starts credential flows for an employee.
type Issuer interface {
	CreateInvitation(ctx context.Context, employeeID id.EmployeeID) (*issuance.InvitationResult, error)
	Resend(ctx context.Context, e *models.Employee) error
}

type Handler struct {
	service Service
	issuer  Issuer
	logger  *slog.Logger
}

func New(service Service, issuer Issuer, logger *slog.Logger) *Handler {
	return &Handler{service: service, issuer: issuer, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/employee", h.HandleCreate)
	r.Put("/api/employee", h.HandleUpdate)
	r.Get("/api/employee", h.HandleList)
	r.Post("/api/employee/batch", h.HandleCreateBatch)
	r.Post("/api/employee/resend-credential", h.HandleResendCredential)
	r.Get("/api/employee/{employeeId}", h.HandleGet)
	r.Delete("/api/employee/{employeeId}", h.HandleDelete)
	r.Post("/api/employee/{employeeId}/create-invitation", h.HandleCreateInvitation)
}

type InvitationResponse struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.EmployeeRequest](w, r, h.logger)
	if !ok {
		return
	}

	e := req.ToModel()
	if err := h.service.Create(ctx, e); err != nil {
		h.fail(w, r, "create employee failed", err, e.ID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ToResponse(e))
}

// HandleCreateBatch imports already-parsed employee rows. Rows whose id
// exists are skipped, not rejected.
func (h *Handler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.BatchRequest](w, r, h.logger)
	if !ok {
		return
	}

	employees := make([]*models.Employee, 0, len(req.Employees))
	byID := make(map[id.EmployeeID]*models.Employee, len(req.Employees))
	for i := range req.Employees {
		e := req.Employees[i].ToModel()
		employees = append(employees, e)
		byID[e.ID] = e
	}

	created, skipped, err := h.service.CreateBatch(ctx, employees)
	if err != nil {
		h.fail(w, r, "employee batch import failed", err, "")
		return
	}

	resp := models.BatchResponse{
		Created: make([]models.EmployeeResponse, 0, len(created)),
		Skipped: make([]string, 0, len(skipped)),
	}
	for _, empID := range created {
		resp.Created = append(resp.Created, models.ToResponse(byID[empID]))
	}
	for _, empID := range skipped {
		resp.Skipped = append(resp.Skipped, empID.String())
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.EmployeeRequest](w, r, h.logger)
	if !ok {
		return
	}

	e := req.ToModel()
	if err := h.service.Update(ctx, e); err != nil {
		h.fail(w, r, "update employee failed", err, e.ID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(e))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list employees failed", err, "")
		return
	}
	out := make([]models.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, models.ToResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.pathEmployeeID(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, "get employee failed", err, employeeID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(e))
}

// HandleDelete removes the employee. With revoke=true a credential already
// issued to the same id is revoked as well; by default it is left alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.pathEmployeeID(w, r)
	if !ok {
		return
	}
	revoke := false
	if raw := r.URL.Query().Get("revoke"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "revoke must be true or false"))
			return
		}
		revoke = v
	}

	if err := h.service.Delete(r.Context(), employeeID, revoke); err != nil {
		h.fail(w, r, "delete employee failed", err, employeeID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.pathEmployeeID(w, r)
	if !ok {
		return
	}
	res, err := h.issuer.CreateInvitation(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, "create invitation failed", err, employeeID)
		return
	}

	resp := InvitationResponse{URL: res.URL}
	if res.Outcome == issuance.OutcomeOkWithWarning && res.Warning != nil {
		resp.Warning = res.Warning.Error()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleResendCredential answers 400 when the employee has no issued
// credential or no connection to resend over; the caller has to start a new
// invitation instead.
func (h *Handler) HandleResendCredential(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[models.EmployeeRequest](w, r, h.logger)
	if !ok {
		return
	}

	e := req.ToModel()
	if err := h.issuer.Resend(r.Context(), e); err != nil {
		if errors.Is(err, issuance.ErrIssuedCredentialNotFound) || errors.Is(err, issuance.ErrConnectionNotFound) {
			err = &dErrors.Error{Code: dErrors.CodeBadRequest, Message: err.Error(), Err: err}
		}
		h.fail(w, r, "resend credential failed", err, e.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathEmployeeID(w http.ResponseWriter, r *http.Request) (id.EmployeeID, bool) {
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "employeeId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid employee id"))
		return "", false
	}
	return employeeID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, employeeID id.EmployeeID) {
	ctx := r.Context()
	level := slog.LevelError
	if code := dErrors.CodeOf(err); code == dErrors.CodeNotFound || code == dErrors.CodeConflict || code == dErrors.CodeBadRequest {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"employee_id", employeeID,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
