package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

const (
	visitorTTL   = 10 * time.Minute
	sweepEvery   = 5 * time.Minute
	retryAfterS  = "1"
	limitMessage = "Too many requests, slow down."
)

var errRateLimited = appErr.New(appErr.CodeUnavailable, limitMessage)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

type visitorLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	visitors  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorLimiter(rps float64, burst int) *visitorLimiter {
	return &visitorLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		visitors:  map[string]*limiterEntry{},
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *visitorLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepEvery {
		for k, v := range l.visitors {
			if now.Sub(v.last) > visitorTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	le, ok := l.visitors[key]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = le
	}
	le.last = now
	return le.limiter.AllowN(now, 1)
}

// getIP keys visitors by the connection address. Forwarding headers are
// only honoured when the router rewrites RemoteAddr behind a trusted proxy.
func getIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit applies a per-IP token bucket.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	l := newVisitorLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(getIP(r)) {
				w.Header().Set("Retry-After", retryAfterS)
				types.WriteJSON(w, http.StatusTooManyRequests, types.APIResponse{
					Success: false,
					Error:   &types.APIError{Code: string(errRateLimited.Code), Message: errRateLimited.Message},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
