// Package marketdata defines the market data boundary the research steps
// read from: sector listings, quotes, fundamentals, price history and
// peer groups.
//
// [Static] serves a fixed offline dataset and is the default provider.
// [RateLimited] and [Retrying] wrap any provider with client-side rate
// limiting and retry-with-backoff; they compose:
//
//	p := marketdata.NewRetrying(
//	    marketdata.NewRateLimited(marketdata.NewStatic(), rate.Limit(20), 5),
//	    marketdata.DefaultAttempts, backoff.DefaultStrategy(),
//	)
package marketdata

import (
	"context"
	"time"
)

// Listing is one screenable instrument in a sector.
type Listing struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
}

// Quote is a point-in-time price for a symbol.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// Fundamentals carries the valuation inputs for one symbol.
type Fundamentals struct {
	Symbol           string  `json:"symbol"`
	PERatio          float64 `json:"pe_ratio"`
	EPS              float64 `json:"eps"`
	RevenueGrowthPct float64 `json:"revenue_growth_pct"`
	DebtToEquity     float64 `json:"debt_to_equity"`
	DividendYieldPct float64 `json:"dividend_yield_pct"`
}

// Candle is one day of price history.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ScreenCriteria filters a sector's listings. Zero values mean
// "no constraint".
type ScreenCriteria struct {
	MinMarketCap        float64 `json:"min_market_cap,omitempty"`
	MaxPE               float64 `json:"max_pe,omitempty"`
	MinDividendYieldPct float64 `json:"min_dividend_yield_pct,omitempty"`
}

// Provider is the read-only market data surface. Implementations fail
// with vestro.ErrSymbolNotFound or vestro.ErrSectorNotFound for unknown
// keys; any other error is an infrastructure failure the caller may
// retry.
type Provider interface {
	// Sectors lists the known sector names in sorted order.
	Sectors(ctx context.Context) ([]string, error)

	// Screen returns the sector's listings that pass the criteria,
	// sorted by descending market cap.
	Screen(ctx context.Context, sector string, c ScreenCriteria) ([]Listing, error)

	// Lookup returns the listing for a symbol.
	Lookup(ctx context.Context, symbol string) (*Listing, error)

	// Quote returns the current price for a symbol.
	Quote(ctx context.Context, symbol string) (*Quote, error)

	// Fundamentals returns the valuation inputs for a symbol.
	Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error)

	// History returns the last days trading days for a symbol, oldest
	// first.
	History(ctx context.Context, symbol string, days int) ([]Candle, error)

	// Peers returns the symbols sharing the given symbol's sector,
	// excluding the symbol itself, sorted.
	Peers(ctx context.Context, symbol string) ([]string, error)
}
