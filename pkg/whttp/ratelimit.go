package whttp

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter keeps one token bucket per upstream site so providers served
// by the same site share a budget.
type hostLimiter struct {
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	key    func(host string) string
	byHost map[string]*rate.Limiter
}

func newHostLimiter(perSecond float64, key func(host string) string) *hostLimiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &hostLimiter{
		limit:  rate.Limit(perSecond),
		burst:  burst,
		key:    key,
		byHost: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may send one more request. A nil limiter never blocks.
func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	if h == nil {
		return nil
	}
	return h.get(host).Wait(ctx)
}

func (h *hostLimiter) get(host string) *rate.Limiter {
	key := strings.ToLower(host)
	if h.key != nil {
		if k := h.key(host); k != "" {
			key = k
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.byHost[key]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.byHost[key] = l
	}
	return l
}
