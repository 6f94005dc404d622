package marketdata_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/backoff"
	"github.com/anthony-okoye/vestro/marketdata"
)

// ──────────────────────────────────────────────────
// Static provider
// ──────────────────────────────────────────────────

func TestStaticSectors(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	sectors, err := p.Sectors(context.Background())
	if err != nil {
		t.Fatalf("Sectors returned error: %v", err)
	}

	want := []string{"consumer", "energy", "finance", "healthcare", "technology"}
	if len(sectors) != len(want) {
		t.Fatalf("Sectors = %v, want %v", sectors, want)
	}
	for i := range want {
		if sectors[i] != want[i] {
			t.Fatalf("Sectors = %v, want %v", sectors, want)
		}
	}
}

func TestStaticScreen(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()
	ctx := context.Background()

	tests := []struct {
		name     string
		sector   string
		criteria marketdata.ScreenCriteria
		want     []string // symbols in expected order
	}{
		{
			name:   "technology unfiltered sorts by market cap",
			sector: "technology",
			want:   []string{"NOVA", "CLDW", "QBIT"},
		},
		{
			name:     "min market cap",
			sector:   "technology",
			criteria: marketdata.ScreenCriteria{MinMarketCap: 100e9},
			want:     []string{"NOVA", "CLDW"},
		},
		{
			name:     "max pe",
			sector:   "technology",
			criteria: marketdata.ScreenCriteria{MaxPE: 25},
			want:     []string{"NOVA"},
		},
		{
			name:     "min dividend yield",
			sector:   "consumer",
			criteria: marketdata.ScreenCriteria{MinDividendYieldPct: 1.0},
			want:     []string{"MRKT", "BRWH"},
		},
		{
			name:     "no survivors",
			sector:   "energy",
			criteria: marketdata.ScreenCriteria{MaxPE: 5},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Screen(ctx, tt.sector, tt.criteria)
			if err != nil {
				t.Fatalf("Screen returned error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Screen returned %d listings, want %d", len(got), len(tt.want))
			}
			for i, l := range got {
				if l.Symbol != tt.want[i] {
					t.Errorf("Screen[%d] = %s, want %s", i, l.Symbol, tt.want[i])
				}
			}
		})
	}
}

func TestStaticScreenUnknownSector(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	_, err := p.Screen(context.Background(), "utilities", marketdata.ScreenCriteria{})
	if !errors.Is(err, vestro.ErrSectorNotFound) {
		t.Fatalf("err = %v, want ErrSectorNotFound", err)
	}
}

func TestStaticQuote(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	q, err := p.Quote(context.Background(), "NOVA")
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != 146.40 {
		t.Errorf("Price = %v, want 146.40", q.Price)
	}
	if q.AsOf.IsZero() {
		t.Error("AsOf not stamped")
	}

	_, err = p.Quote(context.Background(), "NOPE")
	if !errors.Is(err, vestro.ErrSymbolNotFound) {
		t.Fatalf("unknown symbol err = %v, want ErrSymbolNotFound", err)
	}
}

func TestStaticLookup(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	l, err := p.Lookup(context.Background(), "GENM")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if l.Name != "Genomica" {
		t.Errorf("Name = %q, want Genomica", l.Name)
	}
	if l.Sector != "healthcare" {
		t.Errorf("Sector = %q, want healthcare", l.Sector)
	}

	_, err = p.Lookup(context.Background(), "NOPE")
	if !errors.Is(err, vestro.ErrSymbolNotFound) {
		t.Fatalf("unknown symbol err = %v, want ErrSymbolNotFound", err)
	}
}

func TestStaticFundamentals(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	f, err := p.Fundamentals(context.Background(), "NOVA")
	if err != nil {
		t.Fatalf("Fundamentals returned error: %v", err)
	}
	if f.PERatio != 24.0 {
		t.Errorf("PERatio = %v, want 24.0", f.PERatio)
	}
	if f.EPS != 6.10 {
		t.Errorf("EPS = %v, want 6.10", f.EPS)
	}
}

func TestStaticHistory(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()
	ctx := context.Background()

	first, err := p.History(ctx, "NOVA", 60)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(first) != 60 {
		t.Fatalf("History returned %d candles, want 60", len(first))
	}

	for i, c := range first {
		if c.Close <= 0 || c.Open <= 0 || c.High <= 0 || c.Low <= 0 {
			t.Fatalf("candle %d has non-positive prices: %+v", i, c)
		}
		if c.High < c.Close || c.Low > c.Close {
			t.Fatalf("candle %d range does not contain close: %+v", i, c)
		}
		if i > 0 && !first[i].Date.After(first[i-1].Date) {
			t.Fatalf("dates not ascending at %d: %v then %v", i, first[i-1].Date, first[i].Date)
		}
	}

	// The walk ends at the quoted price.
	if got := first[len(first)-1].Close; got != 146.40 {
		t.Errorf("final close = %v, want 146.40", got)
	}

	// Same symbol, same walk.
	second, err := p.History(ctx, "NOVA", 60)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	for i := range first {
		if first[i].Close != second[i].Close {
			t.Fatalf("history not deterministic at %d: %v vs %v", i, first[i].Close, second[i].Close)
		}
	}
}

func TestStaticHistoryDefaultDays(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	candles, err := p.History(context.Background(), "QBIT", 0)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(candles) != 30 {
		t.Errorf("History(0) returned %d candles, want 30", len(candles))
	}
}

func TestStaticPeers(t *testing.T) {
	t.Parallel()
	p := marketdata.NewStatic()

	peers, err := p.Peers(context.Background(), "NOVA")
	if err != nil {
		t.Fatalf("Peers returned error: %v", err)
	}

	want := []string{"CLDW", "QBIT"}
	if len(peers) != len(want) {
		t.Fatalf("Peers = %v, want %v", peers, want)
	}
	for i := range want {
		if peers[i] != want[i] {
			t.Fatalf("Peers = %v, want %v", peers, want)
		}
	}
}

// ──────────────────────────────────────────────────
// Retrying provider
// ──────────────────────────────────────────────────

// flaky fails the first n Quote calls, then delegates.
type flaky struct {
	marketdata.Provider
	failures int
	calls    int
}

func (f *flaky) Quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("upstream 503")
	}
	return f.Provider.Quote(ctx, symbol)
}

func TestRetryingRecoversFromTransientErrors(t *testing.T) {
	t.Parallel()

	inner := &flaky{Provider: marketdata.NewStatic(), failures: 2}
	p := marketdata.NewRetrying(inner, 3, backoff.NewConstant(time.Millisecond))

	q, err := p.Quote(context.Background(), "NOVA")
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != 146.40 {
		t.Errorf("Price = %v, want 146.40", q.Price)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls)
	}
}

func TestRetryingDoesNotRetryUnknownSymbol(t *testing.T) {
	t.Parallel()

	inner := &flaky{Provider: marketdata.NewStatic(), failures: 0}
	p := marketdata.NewRetrying(inner, 3, backoff.NewConstant(time.Millisecond))

	_, err := p.Quote(context.Background(), "NOPE")
	if !errors.Is(err, vestro.ErrSymbolNotFound) {
		t.Fatalf("err = %v, want ErrSymbolNotFound", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (no retry on permanent error)", inner.calls)
	}
}

func TestRetryingExhaustsAttempts(t *testing.T) {
	t.Parallel()

	inner := &flaky{Provider: marketdata.NewStatic(), failures: 100}
	p := marketdata.NewRetrying(inner, 2, backoff.NewConstant(time.Millisecond))

	_, err := p.Quote(context.Background(), "NOVA")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "attempts exhausted") {
		t.Errorf("error %q does not mention exhaustion", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

// ──────────────────────────────────────────────────
// Rate limited provider
// ──────────────────────────────────────────────────

func TestRateLimitedPacesCalls(t *testing.T) {
	t.Parallel()

	p := marketdata.NewRateLimited(marketdata.NewStatic(), rate.Every(50*time.Millisecond), 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := p.Quote(ctx, "NOVA"); err != nil {
			t.Fatalf("Quote returned error: %v", err)
		}
	}
	// Burst of 1: calls 2 and 3 each wait ~50ms.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("3 calls took %v, want at least 100ms", elapsed)
	}
}

func TestRateLimitedHonorsContext(t *testing.T) {
	t.Parallel()

	p := marketdata.NewRateLimited(marketdata.NewStatic(), rate.Every(time.Hour), 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// First call takes the lone burst token.
	if _, err := p.Quote(ctx, "NOVA"); err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	// Second call cannot get a token before the deadline.
	if _, err := p.Quote(ctx, "NOVA"); err == nil {
		t.Fatal("expected error when rate limit wait exceeds deadline")
	}
}

func TestRateLimitedPassesThrough(t *testing.T) {
	t.Parallel()

	p := marketdata.NewRateLimited(marketdata.NewStatic(), rate.Inf, 0)
	ctx := context.Background()

	sectors, err := p.Sectors(ctx)
	if err != nil {
		t.Fatalf("Sectors returned error: %v", err)
	}
	if len(sectors) != 5 {
		t.Errorf("Sectors count = %d, want 5", len(sectors))
	}

	if _, err := p.Quote(ctx, "NOPE"); !errors.Is(err, vestro.ErrSymbolNotFound) {
		t.Errorf("unknown symbol err = %v, want ErrSymbolNotFound", err)
	}
}
