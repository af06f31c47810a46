package remote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the default per-host request rate.
const DefaultRequestsPerSecond = 2.0

// HostLimiter provides per-host rate limiting using token buckets.
// Requests to different hosts proceed independently. A host that answers
// 429 or 503 with Retry-After is held back until that time has passed.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	notAfter map[string]time.Time
	rps      float64
	now      func() time.Time
}

// NewHostLimiter creates a limiter allowing rps requests per second per
// host with a burst of 1.
func NewHostLimiter(rps float64) *HostLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		notAfter: make(map[string]time.Time),
		rps:      rps,
		now:      time.Now,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(h.rps), 1)
		h.limiters[host] = limiter
	}
	until := h.notAfter[host]
	h.mu.Unlock()

	if wait := until.Sub(h.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return limiter.Wait(ctx)
}

// Backoff holds requests to host until d from now.
func (h *HostLimiter) Backoff(host string, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	until := h.now().Add(d)
	if until.After(h.notAfter[host]) {
		h.notAfter[host] = until
	}
}
