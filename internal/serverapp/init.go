package serverapp

import (
	"context"
	"fmt"

	"graphlink/internal/resolver"
	"graphlink/internal/store"
)

// Init initializes all runtime resources. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	if a.loggerProvider != nil {
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return a.loggerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	meterProvider, graphqlMetrics, err := initMetrics(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry metrics: %w", err)
	}
	if meterProvider != nil {
		cleanup.push("meter provider", func(shutdownCtx context.Context) error {
			return meterProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	tracerProvider, err := initTracing(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry tracing: %w", err)
	}
	if tracerProvider != nil {
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	st := store.New()
	res := resolver.New(st)
	schema, err := res.BuildSchema()
	if err != nil {
		return fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	a.logger.Info("GraphQL schema built")

	graphqlHandler := buildGraphQLHandler(a.cfg, a.logger, &schema, graphqlMetrics)

	adminHandler, err := buildAdminHandler(a.cfg, a.logger, st)
	if err != nil {
		return fmt.Errorf("failed to initialize admin handler: %w", err)
	}

	mux := buildRouter(a.cfg, a.logger, st, graphqlHandler, adminHandler, meterProvider)
	handler := wrapHTTPHandler(a.cfg, a.logger, mux)

	serverAddr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	srv, tlsManager, err := buildServer(a.cfg, a.logger, handler, serverAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	cleanup.push("HTTP server", func(shutdownCtx context.Context) error {
		return srv.Shutdown(shutdownCtx)
	})
	if tlsManager != nil {
		cleanup.push("TLS manager", func(_ context.Context) error {
			return tlsManager.Shutdown()
		})
	}

	a.stateMu.Lock()
	a.meterProvider = meterProvider
	a.graphqlMetrics = graphqlMetrics
	a.tracerProvider = tracerProvider
	a.store = st
	a.resolver = res
	a.schema = schema
	a.graphqlHandler = graphqlHandler
	a.adminHandler = adminHandler
	a.mux = mux
	a.handler = handler
	a.serverAddr = serverAddr
	a.srv = srv
	a.tlsManager = tlsManager
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}
