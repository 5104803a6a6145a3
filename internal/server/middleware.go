package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// requestLogger logs one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

// clientLimiters hands out one token-bucket limiter per client IP.
// Idle entries are dropped so the map does not grow without bound.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      float64
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(ctx context.Context, rps float64, burst int) *clientLimiters {
	if burst < 1 {
		burst = 1
	}
	cl := &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		rps:      rps,
		burst:    burst,
	}
	go cl.cleanupLoop(ctx, 5*time.Minute)
	return cl
}

func (cl *clientLimiters) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	l, ok := cl.limiters[key]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cl.rps), cl.burst)}
		cl.limiters[key] = l
	}
	l.lastSeen = time.Now()
	return l.limiter.Allow()
}

func (cl *clientLimiters) cleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		threshold := time.Now().Add(-every)
		cl.mu.Lock()
		for key, l := range cl.limiters {
			if l.lastSeen.Before(threshold) {
				delete(cl.limiters, key)
			}
		}
		cl.mu.Unlock()
	}
}

// rateLimit enforces a per-client request rate. Skip paths (health
// checks) bypass the limiter entirely.
func rateLimit(limiters *clientLimiters, skipPaths []string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			// RealIP middleware has already normalized RemoteAddr.
			if !limiters.allow(r.RemoteAddr) {
				w.Header().Set("Retry-After", "1")
				writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
