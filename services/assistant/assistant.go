// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package assistant provides the catalog-grounded sales assistant service.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the LLM backend, the Badger-backed catalog
// and session stores, and observability infrastructure.
//
// # Usage
//
//	cfg := assistant.Config{Port: 12310, LLMBackend: "ollama"}
//	svc, err := assistant.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/observability"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/routes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/services"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/llm"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the assistant service.
//
// # Description
//
// Service abstracts the assistant lifecycle, enabling testing and
// alternative implementations. Only essential lifecycle methods are
// exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds assistant configuration options.
//
// # Description
//
// Config centralizes all configuration for the assistant service.
// Values can be populated from environment variables or programmatically
// for testing. All fields have sensible defaults applied by New().
//
// # Examples
//
//	// Minimal config (uses all defaults, fallback responder)
//	cfg := Config{}
//
//	// Ollama-backed assistant with a seeded catalog
//	cfg := Config{
//	    Port:        12310,
//	    LLMBackend:  "ollama",
//	    CatalogSeed: "./config/catalog.yaml",
//	}
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// LLMBackend specifies the LLM provider.
	// Valid values: "ollama", "openai", "none"
	// Default: "none" (fallback responder, no model calls)
	LLMBackend string

	// DataPath is the Badger database directory for the catalog and
	// session audit log. Default: "./data/assistant"
	DataPath string

	// InMemoryStore uses an in-memory Badger instance instead of
	// DataPath. Intended for tests. Default: false
	InMemoryStore bool

	// CatalogSeed is an optional YAML file loaded into an empty catalog
	// at startup. Ignored when empty or when the catalog already has
	// items.
	CatalogSeed string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "assistant-otel-collector:4317"
	OTelEndpoint string

	// EnableMetrics enables Prometheus metrics registration.
	// Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	llmClient     llm.LLMClient
	responder     services.Responder
	db            *store.DB
	catalog       *store.CatalogStore
	sessions      *store.SessionStore
	metrics       *observability.LoopMetrics
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new assistant Service with the given configuration.
//
// # Description
//
// New initializes all assistant components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Opens the Badger store and seeds the catalog if configured
//  5. Creates the LLM client based on backend type
//  6. Selects the Responder (self-correction loop or fallback)
//  7. Sets up HTTP routes
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run assistant service
//   - error: Non-nil if initialization fails
//
// # Assumptions
//
//   - Environment variables are set for the chosen LLM provider
//   - The data directory is writable
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	// Initialize OpenTelemetry tracer
	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	// Initialize Prometheus metrics
	if s.config.EnableMetrics {
		s.metrics = observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for the self-correction loop")
	}

	// Open the store and seed the catalog
	if err := s.initStores(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize stores: %w", err)
	}

	// Initialize LLM client and select the responder
	if err := s.initResponder(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize responder: %w", err)
	}

	// Setup HTTP router
	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
// Cleanup is automatic on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting assistant server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
// Callers must not modify the router.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "none"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "./data/assistant"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "assistant-otel-collector:4317"
	}
	cfg.EnableMetrics = true

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Sets up an OTLP trace exporter sending spans to the configured
// collector over an insecure gRPC connection (appropriate for internal
// networks). Returns a cleanup function to call on shutdown.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("assistant-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initStores opens the Badger database and wires the catalog and session
// stores on top of it, seeding the catalog when a seed file is configured.
func (s *service) initStores() error {
	var (
		db  *store.DB
		err error
	)
	if s.config.InMemoryStore {
		db, err = store.OpenInMemory()
	} else {
		db, err = store.Open(store.DefaultConfig(s.config.DataPath))
	}
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	s.db = db
	s.catalog = store.NewCatalogStore(db)
	s.sessions = store.NewSessionStore(db)

	if s.config.CatalogSeed != "" {
		n, err := s.catalog.SeedFromYAML(context.Background(), s.config.CatalogSeed)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		if n > 0 {
			slog.Info("Seeded catalog from file", "path", s.config.CatalogSeed, "items", n)
		}
	}

	return nil
}

// initResponder creates the LLM client for the configured backend and
// selects the Responder implementation. "none" wires the fallback
// responder so the service keeps serving a well-formed session shape
// without any model.
func (s *service) initResponder() error {
	var err error

	switch s.config.LLMBackend {
	case "ollama":
		s.llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama LLM backend")
	case "openai":
		s.llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	case "none":
		slog.Warn("No LLM backend configured, using fallback responder")
		s.responder = services.NewUnconfiguredResponder(s.sessions)
		return nil
	default:
		slog.Warn("Unknown LLM backend, using fallback responder", "backend", s.config.LLMBackend)
		s.responder = services.NewUnconfiguredResponder(s.sessions)
		return nil
	}
	if err != nil {
		return err
	}

	s.responder = services.NewSelfCorrectionService(s.llmClient, s.catalog, s.sessions, s.metrics)
	return nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("assistant-service"))

	routes.SetupRoutes(s.router, s.responder, s.catalog, s.sessions)
}

// cleanup releases all resources held by the service.
// Called when Run() exits or on initialization failure.
func (s *service) cleanup() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("store close error", "error", err)
		}
	}

	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
