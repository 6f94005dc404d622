package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/backoff"
)

// DefaultAttempts is the total number of tries the retrying provider
// makes before giving up.
const DefaultAttempts = 3

// Compile-time check.
var _ Provider = (*Retrying)(nil)

// Retrying wraps a provider with retry-on-error. Unknown symbols and
// sectors are permanent and never retried; everything else is treated as
// transient and retried with the configured backoff between attempts.
type Retrying struct {
	next     Provider
	attempts int
	strategy backoff.Strategy
}

// NewRetrying wraps next with up to attempts tries per call. A nil
// strategy falls back to backoff.DefaultStrategy.
func NewRetrying(next Provider, attempts int, strategy backoff.Strategy) *Retrying {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	if strategy == nil {
		strategy = backoff.DefaultStrategy()
	}
	return &Retrying{next: next, attempts: attempts, strategy: strategy}
}

// permanent reports whether err cannot be cured by retrying.
func permanent(err error) bool {
	return errors.Is(err, vestro.ErrSymbolNotFound) ||
		errors.Is(err, vestro.ErrSectorNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// do runs fn up to r.attempts times, sleeping per the strategy between
// failures.
func (r *Retrying) do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = fn(); err == nil || permanent(err) {
			return err
		}
		if attempt == r.attempts {
			break
		}
		select {
		case <-time.After(r.strategy.Delay(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("marketdata: retry wait: %w", ctx.Err())
		}
	}
	return fmt.Errorf("marketdata: %d attempts exhausted: %w", r.attempts, err)
}

func (r *Retrying) Sectors(ctx context.Context) ([]string, error) {
	var out []string
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Sectors(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) Screen(ctx context.Context, sector string, c ScreenCriteria) ([]Listing, error) {
	var out []Listing
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Screen(ctx, sector, c)
		return err
	})
	return out, err
}

func (r *Retrying) Lookup(ctx context.Context, symbol string) (*Listing, error) {
	var out *Listing
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Lookup(ctx, symbol)
		return err
	})
	return out, err
}

func (r *Retrying) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var out *Quote
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Quote(ctx, symbol)
		return err
	})
	return out, err
}

func (r *Retrying) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	var out *Fundamentals
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Fundamentals(ctx, symbol)
		return err
	})
	return out, err
}

func (r *Retrying) History(ctx context.Context, symbol string, days int) ([]Candle, error) {
	var out []Candle
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.History(ctx, symbol, days)
		return err
	})
	return out, err
}

func (r *Retrying) Peers(ctx context.Context, symbol string) ([]string, error) {
	var out []string
	err := r.do(ctx, func() error {
		var err error
		out, err = r.next.Peers(ctx, symbol)
		return err
	})
	return out, err
}
