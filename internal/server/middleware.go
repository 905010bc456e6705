package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"fxpredict/internal/metrics"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe wraps a handler with request logging and Prometheus metrics.
func observe(next http.Handler, logger zerolog.Logger, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		dur := time.Since(start)
		m.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		m.RequestDur.Observe(dur.Seconds())

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", dur).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// clientLimiter hands out one token bucket per client IP. Buckets are
// created lazily and never expire; for a demo service the client set is
// small enough that eviction is not worth the bookkeeping.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (c *clientLimiter) limiter(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.clients[ip]
	if !ok {
		lim = rate.NewLimiter(c.rps, c.burst)
		c.clients[ip] = lim
	}
	return lim
}

// limit rejects requests that exceed the per-client budget with a 429 and
// the standard error body.
func (c *clientLimiter) limit(next http.Handler, h *Handler, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !c.limiter(ip).Allow() {
			m.RateLimited.Inc()
			h.writeError(w, http.StatusTooManyRequests, "RateLimitError", "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
