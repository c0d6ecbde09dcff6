package exec

import (
	"context"
	"fmt"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// RateLimited wraps an Executor with a client-side token bucket so a burst
// of pulses cannot trip the venue's request limits. A throttled call fails
// with ErrRateLimited, the same transient class a venue-side limit produces,
// and the next pulse retries naturally.
type RateLimited struct {
	inner   Executor
	limiter *infra.RateLimiter
}

func NewRateLimited(inner Executor, limiter *infra.RateLimiter) *RateLimited {
	return &RateLimited{inner: inner, limiter: limiter}
}

func (r *RateLimited) Execute(ctx context.Context, batch Batch) error {
	if !r.limiter.TryAcquire() {
		return fmt.Errorf("throttling batch submit: %w", ErrRateLimited)
	}
	return r.inner.Execute(ctx, batch)
}

func (r *RateLimited) OpenOrders(ctx context.Context) ([]domain.Order, error) {
	if !r.limiter.TryAcquire() {
		return nil, fmt.Errorf("throttling open-orders listing: %w", ErrRateLimited)
	}
	return r.inner.OpenOrders(ctx)
}
