package http

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter spaces requests to the same host. Each host gets its own
// token bucket with a burst of 1; a non-positive rate disables limiting.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second per host.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to host is allowed. Host names are compared
// case-insensitively and without a port. It fails immediately if ctx
// would expire before the slot opens.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiter(host).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	key := strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[key] = l
	}
	return l
}
