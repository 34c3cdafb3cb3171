package serverapp

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"graphlink/internal/config"
	"graphlink/internal/logging"
	"graphlink/internal/middleware"
	"graphlink/internal/observability"
	"graphlink/internal/store"
	"graphlink/internal/tlscert"
)

func InitLogger(cfg *config.Config) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	}
	logger := logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.Logging.ExportsEnabled {
		return logger, nil, nil
	}

	logsConfig := cfg.Observability.GetLogsConfig()
	logger.Info("initializing OpenTelemetry logging",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("service_version", cfg.Observability.ServiceVersion),
		slog.String("environment", cfg.Observability.Environment),
		slog.String("otlp_endpoint", logsConfig.Endpoint),
		slog.String("otlp_protocol", logsConfig.Protocol),
		slog.Bool("insecure", logsConfig.Insecure),
	)

	loggerProvider, err := observability.InitLoggerProvider(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Observability.Environment,
		OTLPConfig: observability.OTLPExporterConfig{
			Endpoint:          logsConfig.Endpoint,
			Protocol:          logsConfig.Protocol,
			Insecure:          logsConfig.Insecure,
			TLSCertFile:       logsConfig.TLSCertFile,
			TLSClientCertFile: logsConfig.TLSClientCertFile,
			TLSClientKeyFile:  logsConfig.TLSClientKeyFile,
			Headers:           logsConfig.Headers,
			Timeout:           logsConfig.Timeout,
			Compression:       logsConfig.Compression,
			RetryEnabled:      logsConfig.RetryEnabled,
			RetryMaxAttempts:  logsConfig.RetryMaxAttempts,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("OpenTelemetry logging initialized successfully")

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	return logger, loggerProvider, nil
}

func initMetrics(cfg *config.Config, logger *logging.Logger) (*observability.MeterProvider, *observability.GraphQLMetrics, error) {
	if !cfg.Observability.MetricsEnabled {
		return nil, nil, nil
	}

	logger.Info("initializing OpenTelemetry metrics",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("service_version", cfg.Observability.ServiceVersion),
		slog.String("environment", cfg.Observability.Environment),
	)

	meterProvider, err := observability.InitMeterProvider(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Observability.Environment,
		OTLPConfig:     observability.OTLPExporterConfig{},
	})
	if err != nil {
		return nil, nil, err
	}

	graphqlMetrics, err := observability.InitMetrics(logger.Logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("OpenTelemetry metrics initialized successfully")

	return meterProvider, graphqlMetrics, nil
}

func initTracing(cfg *config.Config, logger *logging.Logger) (*observability.TracerProvider, error) {
	if !cfg.Observability.TracingEnabled {
		return nil, nil
	}

	tracesConfig := cfg.Observability.GetTracesConfig()
	logger.Info("initializing OpenTelemetry tracing",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("service_version", cfg.Observability.ServiceVersion),
		slog.String("environment", cfg.Observability.Environment),
		slog.String("otlp_endpoint", tracesConfig.Endpoint),
		slog.String("otlp_protocol", tracesConfig.Protocol),
		slog.Bool("insecure", tracesConfig.Insecure),
	)

	tracerProvider, err := observability.InitTracerProvider(observability.Config{
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVersion:   cfg.Observability.ServiceVersion,
		Environment:      cfg.Observability.Environment,
		TraceSampleRatio: cfg.Observability.TraceSampleRatio,
		OTLPConfig: observability.OTLPExporterConfig{
			Endpoint:          tracesConfig.Endpoint,
			Protocol:          tracesConfig.Protocol,
			Insecure:          tracesConfig.Insecure,
			TLSCertFile:       tracesConfig.TLSCertFile,
			TLSClientCertFile: tracesConfig.TLSClientCertFile,
			TLSClientKeyFile:  tracesConfig.TLSClientKeyFile,
			Headers:           tracesConfig.Headers,
			Timeout:           tracesConfig.Timeout,
			Compression:       tracesConfig.Compression,
			RetryEnabled:      tracesConfig.RetryEnabled,
			RetryMaxAttempts:  tracesConfig.RetryMaxAttempts,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry tracing initialized successfully")

	return tracerProvider, nil
}

// buildGraphQLHandler assembles the /graphql middleware chain. Logging
// runs outermost so every later layer sees the request-scoped logger,
// then request analysis so metrics and tracing can read the parsed
// operation from context. The chain is:
//
//	request -> logging -> analysis -> metrics -> tracing -> graphql
func buildGraphQLHandler(cfg *config.Config, logger *logging.Logger, schema *graphql.Schema, graphqlMetrics *observability.GraphQLMetrics) http.Handler {
	graphqlHandler := handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: cfg.Server.GraphiQLEnabled,
	})

	tracingHandler := middleware.GraphQLTracingMiddleware()(graphqlHandler)

	metricsHandler := tracingHandler
	if cfg.Observability.MetricsEnabled && graphqlMetrics != nil {
		metricsHandler = middleware.GraphQLMetricsMiddleware(graphqlMetrics)(tracingHandler)
		logger.Info("GraphQL metrics middleware enabled")
	}

	analysisHandler := middleware.GraphQLRequestAnalysisMiddleware()(metricsHandler)

	return middleware.LoggingMiddleware(logger)(analysisHandler)
}

func buildAdminHandler(cfg *config.Config, logger *logging.Logger, st *store.Store) (http.Handler, error) {
	if !cfg.Server.Admin.StoreResetEnabled {
		return nil, nil
	}

	authMiddleware, err := middleware.AdminTokenAuthMiddleware(middleware.AdminTokenAuthConfig{
		Token: cfg.Server.Admin.AuthToken,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("store reset endpoint enabled", slog.String("path", "/admin/reset-store"))
	return authMiddleware(http.HandlerFunc(storeResetHandler(st))), nil
}

func buildRouter(cfg *config.Config, logger *logging.Logger, st *store.Store, graphqlHandler http.Handler, adminHandler http.Handler, meterProvider *observability.MeterProvider) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/graphql", graphqlHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/graphql", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("/health", healthHandler(st))

	if adminHandler != nil {
		mux.Handle("/admin/reset-store", adminHandler)
	}

	if cfg.Observability.MetricsEnabled && meterProvider != nil {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics endpoint enabled", slog.String("path", "/metrics"))
	}

	return mux
}

func wrapHTTPHandler(cfg *config.Config, logger *logging.Logger, handler http.Handler) http.Handler {
	if cfg.Observability.MetricsEnabled || cfg.Observability.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "http.server",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return httpRootSpanName(r)
			}),
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		)
		logger.Info("HTTP instrumentation enabled")
	}

	if cfg.Server.CORSEnabled {
		handler = middleware.CORSMiddleware(middleware.CORSConfig{
			Enabled:          cfg.Server.CORSEnabled,
			AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
			AllowedMethods:   cfg.Server.CORSAllowedMethods,
			AllowedHeaders:   cfg.Server.CORSAllowedHeaders,
			ExposeHeaders:    cfg.Server.CORSExposeHeaders,
			AllowCredentials: cfg.Server.CORSAllowCredentials,
			MaxAge:           cfg.Server.CORSMaxAge,
		})(handler)
	}

	if cfg.Server.RateLimitEnabled {
		handler = middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Enabled: cfg.Server.RateLimitEnabled,
			RPS:     cfg.Server.RateLimitRPS,
			Burst:   cfg.Server.RateLimitBurst,
		})(handler)
	}

	return handler
}

func httpRootSpanName(r *http.Request) string {
	if r == nil {
		return "HTTP /*"
	}

	method := strings.TrimSpace(r.Method)
	if method == "" {
		method = "HTTP"
	}

	return method + " " + normalizeHTTPSpanRoute(r.URL.Path)
}

// normalizeHTTPSpanRoute collapses unknown paths so span cardinality
// stays bounded.
func normalizeHTTPSpanRoute(rawPath string) string {
	switch rawPath {
	case "/", "/graphql", "/health", "/metrics", "/admin/reset-store":
		return rawPath
	default:
		return "/*"
	}
}

func buildServer(cfg *config.Config, logger *logging.Logger, handler http.Handler, serverAddr string) (*http.Server, tlscert.Manager, error) {
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var tlsManager tlscert.Manager
	tlsEnabled := cfg.Server.TLSMode != "" && cfg.Server.TLSMode != "off"
	if tlsEnabled {
		tlsConfig := tlscert.Config{
			Mode:        tlscert.Mode(cfg.Server.TLSMode),
			CertFile:    cfg.Server.TLSCertFile,
			KeyFile:     cfg.Server.TLSKeyFile,
			AutoCertDir: cfg.Server.TLSAutoCertDir,
			AutoHosts:   []string{"localhost", "127.0.0.1", "::1"},
		}

		var err error
		tlsManager, err = tlscert.NewManager(tlsConfig, logger.Logger)
		if err != nil {
			return nil, nil, err
		}

		srv.TLSConfig, err = tlsManager.TLSConfig()
		if err != nil {
			return nil, nil, err
		}

		logger.Info("TLS enabled",
			slog.String("mode", cfg.Server.TLSMode),
			slog.String("cert_source", tlsManager.Description()))
	}

	return srv, tlsManager, nil
}

func startServer(cfg *config.Config, logger *logging.Logger, srv *http.Server, serverAddr string) chan error {
	serverErrors := make(chan error, 1)
	tlsEnabled := cfg.Server.TLSMode != "" && cfg.Server.TLSMode != "off"
	go func() {
		protocol := "http"
		if tlsEnabled {
			protocol = "https"
		}

		logAttrs := []any{
			slog.String("protocol", protocol),
			slog.String("address", serverAddr),
			slog.String("graphql_endpoint", "/graphql"),
			slog.String("health_endpoint", "/health"),
			slog.Bool("graphiql", cfg.Server.GraphiQLEnabled),
			slog.String("log_level", cfg.Observability.Logging.Level),
			slog.String("log_format", cfg.Observability.Logging.Format),
		}

		if cfg.Observability.MetricsEnabled {
			logAttrs = append(logAttrs, slog.String("metrics_endpoint", "/metrics"))
		}

		if cfg.Server.RateLimitEnabled {
			logAttrs = append(logAttrs,
				slog.Float64("rate_limit_rps", cfg.Server.RateLimitRPS),
				slog.Int("rate_limit_burst", cfg.Server.RateLimitBurst),
			)
		}

		if tlsEnabled {
			logAttrs = append(logAttrs,
				slog.Bool("tls_enabled", true),
				slog.String("tls_mode", cfg.Server.TLSMode))
		} else {
			logAttrs = append(logAttrs, slog.Bool("tls_enabled", false))
		}

		logger.Info("server starting", logAttrs...)

		var err error
		if tlsEnabled {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()
	return serverErrors
}

// healthHandler reports liveness along with store occupancy.
func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logging.FromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")

		parents, children := st.Counts()
		reqLogger.Debug("health check passed",
			slog.Int("parents", parents),
			slog.Int("children", children))
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"healthy","parents":%d,"children":%d}`, parents, children)
	}
}

// storeResetHandler drops every node record and restarts key allocation.
func storeResetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logging.FromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = fmt.Fprint(w, `{"error":"method not allowed"}`)
			return
		}

		auth, authenticated := middleware.AuthContextFromContext(r.Context())
		logAttrs := []any{
			slog.String("operation", "store_reset"),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Bool("authenticated", authenticated),
		}
		if authenticated {
			logAttrs = append(logAttrs, slog.String("authenticated_subject", auth.Subject))
		}
		reqLogger.Info("admin endpoint accessed", logAttrs...)

		parents, children := st.Counts()
		st.Reset()

		reqLogger.Info("store reset",
			slog.Int("parents_dropped", parents),
			slog.Int("children_dropped", children))
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","parents_dropped":%d,"children_dropped":%d}`, parents, children)
	}
}
