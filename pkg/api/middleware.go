package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"councild/pkg/httputil"
	"councild/pkg/logger"
	"councild/pkg/models"
	"councild/pkg/token"
)

type ctxClaimsKey struct{}

// ClaimsFromContext returns the verified seat claims for the request, if
// any.
func ClaimsFromContext(ctx context.Context) (models.Claims, bool) {
	c, ok := ctx.Value(ctxClaimsKey{}).(models.Claims)
	return c, ok
}

// requireClaims verifies the bearer token and injects the recovered
// claims into the request context. Any verification failure is a uniform
// 401.
func (a *API) requireClaims(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := token.FromRequest(a.secret, r)
		if err != nil {
			logger.Warn("unauthorized_request", "path", r.URL.Path, "remote", r.RemoteAddr)
			httputil.WriteErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS applies the permissive cross-origin headers every response
// carries, and short-circuits OPTIONS preflights with an empty response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit builds a per-client token-bucket middleware. Clients are
// keyed by bearer token when present, falling back to remote IP.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	pool := &limiterPool{rps: rps, burst: burst}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.Allow(clientKey(r)) {
				logger.Warn("rate_limited", "path", r.URL.Path, "remote", r.RemoteAddr)
				httputil.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(auth, "Bearer "); ok && tok != "" {
		return tok
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	rps := p.rps
	if rps <= 0 {
		rps = 5
	}
	burst := p.burst
	if burst <= 0 {
		burst = 10
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = l
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}
