// Package service orchestrates the credential lifecycle against the SSI agent:
// invitations, offers, issuance confirmation, revocation and resend.
//
// Every entry point locks the employee id for the duration of one logical
// operation. Internal steps never lock, so composite flows such as resend can
// call them while holding the lock.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/admin-bn/company-controller/internal/agent"
	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	"github.com/admin-bn/company-controller/internal/employee/models"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	issuancemetrics "github.com/admin-bn/company-controller/internal/issuance/metrics"
	"github.com/admin-bn/company-controller/internal/platform/lock"
	"github.com/admin-bn/company-controller/internal/platform/tracer"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/middleware/requesttime"
)

// EmployeeStore holds employees waiting for their first credential.
type EmployeeStore interface {
	Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error)
	FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, employeeID id.EmployeeID) error
}

// CredentialStore holds one issued credential record per employee.
type CredentialStore interface {
	FindByID(ctx context.Context, employeeID id.EmployeeID) (*credmodels.Record, error)
	Save(ctx context.Context, r *credmodels.Record) error
	Delete(ctx context.Context, employeeID id.EmployeeID) error
	List(ctx context.Context) ([]*credmodels.Record, error)
}

// EventPublisher receives lifecycle events after each completed transition.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Config carries the agent-side settings the coordinators need.
type Config struct {
	CredentialDefinitionID string
	// ImageURL, when set, is injected into every invitation as "imageUrl".
	ImageURL string
}

// Service coordinates invitations, offers, issuance, revocation and resend.
type Service struct {
	employees   EmployeeStore
	credentials CredentialStore
	agent       agent.Client
	cfg         Config

	locker    lock.Locker
	publisher EventPublisher
	metrics   *issuancemetrics.Metrics
	tracer    tracer.Tracer
	logger    *slog.Logger
}

// Option configures the issuance service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocker replaces the in-process locker, e.g. with a Redis locker when
// several controller replicas receive webhooks.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithPublisher sets where lifecycle events go. Without one nothing is emitted.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithMetrics enables the lifecycle counters.
func WithMetrics(m *issuancemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New builds the service with an in-process locker and a noop tracer by default.
func New(employees EmployeeStore, credentials CredentialStore, agentClient agent.Client, cfg Config, opts ...Option) *Service {
	s := &Service{
		employees:   employees,
		credentials: credentials,
		agent:       agentClient,
		cfg:         cfg,
		locker:      lock.NewLocal(),
		tracer:      tracer.NewNoop(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lock(ctx context.Context, employeeID id.EmployeeID) (func(), error) {
	release, err := s.locker.Lock(ctx, "employee:"+employeeID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "employee is busy")
	}
	return release, nil
}

func (s *Service) startSpan(ctx context.Context, name string, employeeID id.EmployeeID) (context.Context, tracer.Span) {
	return s.tracer.Start(ctx, "issuance."+name, attribute.String("employee.id", employeeID.String()))
}

// requireEmployee is the existence gate run before the first agent call.
func (s *Service) requireEmployee(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	e, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, wrapEmployeeErr(err)
	}
	return e, nil
}

// emit publishes a lifecycle event. Publishing failures are logged only; the
// agent and the stores already reflect the transition.
func (s *Service) emit(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish lifecycle event",
			"event_type", e.Type,
			"employee_id", e.EmployeeID,
			"error", err,
		)
	}
}

func (s *Service) now(ctx context.Context) time.Time {
	return requesttime.Now(ctx)
}
