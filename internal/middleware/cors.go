package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures Cross-Origin Resource Sharing policies.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// corsPolicy is the precomputed form of CORSConfig, built once so the
// per-request path is lookups and header writes only.
type corsPolicy struct {
	allowAll      bool
	origins       map[string]struct{}
	credentials   bool
	methodsHeader string
	headersHeader string
	exposeHeader  string
	maxAgeHeader  string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:       make(map[string]struct{}),
		credentials:   cfg.AllowCredentials,
		methodsHeader: strings.Join(cfg.AllowedMethods, ", "),
		headersHeader: strings.Join(cfg.AllowedHeaders, ", "),
		exposeHeader:  strings.Join(cfg.ExposeHeaders, ", "),
	}
	if cfg.MaxAge > 0 {
		p.maxAgeHeader = strconv.Itoa(cfg.MaxAge)
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			p.allowAll = true
			break
		}
		p.origins[origin] = struct{}{}
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

func (p *corsPolicy) applyOriginHeaders(w http.ResponseWriter, origin string) {
	if p.allowAll {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	// Credentials combined with a wildcard origin is rejected during
	// config validation, so the pairing never reaches this point.
	if p.credentials && !p.allowAll {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}

	if p.exposeHeader != "" {
		w.Header().Set("Access-Control-Expose-Headers", p.exposeHeader)
	}
}

func (p *corsPolicy) applyPreflightHeaders(w http.ResponseWriter) {
	if p.methodsHeader != "" {
		w.Header().Set("Access-Control-Allow-Methods", p.methodsHeader)
	}
	if p.headersHeader != "" {
		w.Header().Set("Access-Control-Allow-Headers", p.headersHeader)
	}
	if p.maxAgeHeader != "" {
		w.Header().Set("Access-Control-Max-Age", p.maxAgeHeader)
	}
}

// CORSMiddleware adds CORS headers and answers preflight requests.
func CORSMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := policy.allows(origin)
			if allowed {
				policy.applyOriginHeaders(w, origin)
			}

			if r.Method == http.MethodOptions {
				if allowed {
					policy.applyPreflightHeaders(w)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
