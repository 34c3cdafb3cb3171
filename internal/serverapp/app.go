package serverapp

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/graphql-go/graphql"

	"graphlink/internal/config"
	"graphlink/internal/logging"
	"graphlink/internal/observability"
	"graphlink/internal/resolver"
	"graphlink/internal/store"
	"graphlink/internal/tlscert"
)

// App owns runtime resources for the graphlink server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider

	meterProvider  *observability.MeterProvider
	graphqlMetrics *observability.GraphQLMetrics
	tracerProvider *observability.TracerProvider

	store    *store.Store
	resolver *resolver.Resolver
	schema   graphql.Schema

	graphqlHandler http.Handler
	adminHandler   http.Handler
	mux            *http.ServeMux
	handler        http.Handler

	serverAddr string
	srv        *http.Server
	tlsManager tlscert.Manager

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &App{cfg: cfg, logger: logger}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}
