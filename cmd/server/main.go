package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admin-bn/company-controller/internal/agent/acapy"
	employeehandler "github.com/admin-bn/company-controller/internal/employee/handler"
	employeeservice "github.com/admin-bn/company-controller/internal/employee/service"
	issuancehandler "github.com/admin-bn/company-controller/internal/issuance/handler"
	issuancemetrics "github.com/admin-bn/company-controller/internal/issuance/metrics"
	issuanceservice "github.com/admin-bn/company-controller/internal/issuance/service"
	"github.com/admin-bn/company-controller/internal/platform/config"
	"github.com/admin-bn/company-controller/internal/platform/health"
	"github.com/admin-bn/company-controller/internal/platform/logger"
	"github.com/admin-bn/company-controller/internal/platform/tracer"
	"github.com/admin-bn/company-controller/pkg/platform/circuit"
	"github.com/admin-bn/company-controller/pkg/platform/middleware/apikey"
	"github.com/admin-bn/company-controller/pkg/platform/middleware/request"
	"github.com/admin-bn/company-controller/pkg/platform/middleware/requesttime"
	"github.com/admin-bn/company-controller/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	log.Info("initializing company controller",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"agent_url", cfg.Agent.URL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	healthHandler := health.New(cfg.Environment)

	infra, err := buildInfra(ctx, cfg, reg, log, healthHandler)
	if err != nil {
		return err
	}
	defer infra.Close(log)

	breaker := circuit.New("acapy",
		circuit.WithFailureThreshold(cfg.Agent.BreakerFailures),
		circuit.WithCooldown(cfg.Agent.Timeout),
	)
	agentClient := acapy.New(acapy.Config{
		BaseURL: cfg.Agent.URL,
		APIKey:  cfg.Agent.APIKey,
		Timeout: cfg.Agent.Timeout,
	},
		acapy.WithLogger(log),
		acapy.WithMetrics(acapy.NewMetrics(reg)),
		acapy.WithBreaker(breaker),
		acapy.WithTracer(tracer.NewOTel(nil)),
	)
	healthHandler.RegisterCheck("agent", agentClient.Ping)

	issuance := issuanceservice.New(infra.employees, infra.credentials, agentClient,
		issuanceservice.Config{
			CredentialDefinitionID: cfg.Agent.CredentialDefinitionID,
			ImageURL:               cfg.Agent.ImageURL,
		},
		issuanceservice.WithLogger(log),
		issuanceservice.WithLocker(infra.locker),
		issuanceservice.WithPublisher(infra.publisher),
		issuanceservice.WithMetrics(issuancemetrics.New(reg)),
		issuanceservice.WithTracer(tracer.NewOTel(nil)),
	)
	employees := employeeservice.New(infra.employees,
		employeeservice.WithLogger(log),
		employeeservice.WithRevoker(issuance),
	)

	router := newRouter(cfg, log, reg, healthHandler,
		employeehandler.New(employees, issuance, log),
		issuancehandler.New(issuance, log),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(
	cfg config.Server,
	log *slog.Logger,
	reg *prometheus.Registry,
	healthHandler *health.Handler,
	employees *employeehandler.Handler,
	issued *issuancehandler.Handler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(request.LatencyMiddleware(request.NewMetrics(reg), func(r *http.Request) string {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			return rctx.RoutePattern()
		}
		return ""
	}))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(apikey.Require(cfg.APIKey, log))
		r.Use(request.BodyLimit(validation.MaxBodySize))
		r.Use(request.ContentTypeJSON)
		r.Use(request.Timeout(cfg.RequestTimeout))

		employees.Register(r)
		issued.Register(r)
		issued.RegisterWebhooks(r)
	})
	return r
}
