package marketdata

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Compile-time check.
var _ Provider = (*RateLimited)(nil)

// RateLimited wraps a provider with a client-side token bucket. Every
// call waits for a token first, so a burst of research sessions cannot
// exceed the upstream's request budget. Safe for concurrent use.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps next, allowing limit requests per second with the
// given burst.
func NewRateLimited(next Provider, limit rate.Limit, burst int) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// wait blocks until a token is available or the context ends.
func (r *RateLimited) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("marketdata: rate limit wait: %w", err)
	}
	return nil
}

func (r *RateLimited) Sectors(ctx context.Context) ([]string, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Sectors(ctx)
}

func (r *RateLimited) Screen(ctx context.Context, sector string, c ScreenCriteria) ([]Listing, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Screen(ctx, sector, c)
}

func (r *RateLimited) Lookup(ctx context.Context, symbol string) (*Listing, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Lookup(ctx, symbol)
}

func (r *RateLimited) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Quote(ctx, symbol)
}

func (r *RateLimited) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Fundamentals(ctx, symbol)
}

func (r *RateLimited) History(ctx context.Context, symbol string, days int) ([]Candle, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.History(ctx, symbol, days)
}

func (r *RateLimited) Peers(ctx context.Context, symbol string) ([]string, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Peers(ctx, symbol)
}
