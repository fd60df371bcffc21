package infra

import (
	"context"
	"sync"
	"time"
)

// DomainGate enforces a minimum spacing between outbound requests to the
// same host. It throttles load per origin without serializing requests to
// unrelated domains. Safe for concurrent use: callers reserve a send slot
// under the lock, then sleep outside it.
type DomainGate struct {
	mu      sync.Mutex
	next    map[string]time.Time
	spacing time.Duration
}

// NewDomainGate creates a gate with the given per-domain spacing.
func NewDomainGate(spacing time.Duration) *DomainGate {
	return &DomainGate{
		next:    make(map[string]time.Time),
		spacing: spacing,
	}
}

// Wait blocks until a request to host is allowed, or the context is done.
// The slot is reserved immediately, so concurrent callers for the same
// host queue up at spacing intervals.
func (g *DomainGate) Wait(ctx context.Context, host string) error {
	g.mu.Lock()
	now := time.Now()
	at := g.next[host]
	if at.Before(now) {
		at = now
	}
	g.next[host] = at.Add(g.spacing)
	g.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		// Release the slot so later requests don't pay spacing for a
		// request that never went out.
		g.mu.Lock()
		g.next[host] = g.next[host].Add(-g.spacing)
		g.mu.Unlock()
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
