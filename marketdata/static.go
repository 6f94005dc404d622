package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/anthony-okoye/vestro"
)

// Compile-time check.
var _ Provider = (*Static)(nil)

// listing pairs an instrument with its fundamentals in the offline set.
type listing struct {
	Listing
	funds Fundamentals
}

// staticSet is the offline dataset. Prices are consistent with
// PERatio * EPS so valuation math lines up across steps.
var staticSet = []listing{
	{Listing{"NOVA", "Novatek Systems", "technology", 146.40, 310e9}, Fundamentals{"NOVA", 24.0, 6.10, 14.5, 0.45, 0.6}},
	{Listing{"QBIT", "Qubit Dynamics", "technology", 93.10, 85e9}, Fundamentals{"QBIT", 38.0, 2.45, 27.0, 0.30, 0.0}},
	{Listing{"CLDW", "Cloudware", "technology", 121.80, 150e9}, Fundamentals{"CLDW", 29.0, 4.20, 19.2, 0.55, 0.2}},
	{Listing{"GENM", "Genomica", "healthcare", 96.30, 120e9}, Fundamentals{"GENM", 18.0, 5.35, 8.4, 0.60, 1.8}},
	{Listing{"MEDL", "Medlane Labs", "healthcare", 75.60, 64e9}, Fundamentals{"MEDL", 21.0, 3.60, 11.3, 0.35, 1.1}},
	{Listing{"SOLR", "Solaris Grid", "energy", 47.20, 38e9}, Fundamentals{"SOLR", 16.0, 2.95, 22.6, 0.85, 0.9}},
	{Listing{"PETN", "Petranova", "energy", 78.40, 210e9}, Fundamentals{"PETN", 8.0, 9.80, 3.1, 0.40, 4.2}},
	{Listing{"FINX", "Finexa Group", "finance", 135.00, 180e9}, Fundamentals{"FINX", 12.0, 11.25, 6.8, 1.10, 2.6}},
	{Listing{"LEDG", "Ledgerline", "finance", 56.70, 45e9}, Fundamentals{"LEDG", 14.0, 4.05, 9.9, 0.95, 3.0}},
	{Listing{"BRWH", "Brewhouse Group", "consumer", 69.30, 52e9}, Fundamentals{"BRWH", 22.0, 3.15, 5.6, 0.70, 2.2}},
	{Listing{"MRKT", "Marketon", "consumer", 192.40, 260e9}, Fundamentals{"MRKT", 26.0, 7.40, 12.7, 0.50, 1.4}},
	{Listing{"GRNB", "Greenbasket", "consumer", 57.35, 28e9}, Fundamentals{"GRNB", 31.0, 1.85, 18.9, 0.25, 0.0}},
}

// Static serves a fixed offline dataset. Quotes and fundamentals are
// stable across calls and history is generated deterministically per
// symbol, which keeps research runs reproducible. Safe for concurrent
// use.
type Static struct {
	bySymbol map[string]listing
	sectors  map[string][]string // sector -> sorted symbols
}

// NewStatic returns a provider over the built-in dataset.
func NewStatic() *Static {
	s := &Static{
		bySymbol: make(map[string]listing, len(staticSet)),
		sectors:  make(map[string][]string),
	}
	for _, l := range staticSet {
		s.bySymbol[l.Symbol] = l
		s.sectors[l.Sector] = append(s.sectors[l.Sector], l.Symbol)
	}
	for _, symbols := range s.sectors {
		sort.Strings(symbols)
	}
	return s
}

// Sectors lists the known sector names in sorted order.
func (s *Static) Sectors(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s.sectors))
	for name := range s.sectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Screen returns the sector's listings passing the criteria, sorted by
// descending market cap.
func (s *Static) Screen(_ context.Context, sector string, c ScreenCriteria) ([]Listing, error) {
	symbols, ok := s.sectors[sector]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSectorNotFound, sector)
	}

	result := make([]Listing, 0, len(symbols))
	for _, sym := range symbols {
		l := s.bySymbol[sym]
		if c.MinMarketCap > 0 && l.MarketCap < c.MinMarketCap {
			continue
		}
		if c.MaxPE > 0 && l.funds.PERatio > c.MaxPE {
			continue
		}
		if c.MinDividendYieldPct > 0 && l.funds.DividendYieldPct < c.MinDividendYieldPct {
			continue
		}
		result = append(result, l.Listing)
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].MarketCap > result[k].MarketCap
	})
	return result, nil
}

// Lookup returns the listing for a symbol.
func (s *Static) Lookup(_ context.Context, symbol string) (*Listing, error) {
	l, ok := s.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSymbolNotFound, symbol)
	}
	out := l.Listing
	return &out, nil
}

// Quote returns the current price for a symbol.
func (s *Static) Quote(_ context.Context, symbol string) (*Quote, error) {
	l, ok := s.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSymbolNotFound, symbol)
	}
	return &Quote{Symbol: symbol, Price: l.Price, AsOf: time.Now().UTC()}, nil
}

// Fundamentals returns the valuation inputs for a symbol.
func (s *Static) Fundamentals(_ context.Context, symbol string) (*Fundamentals, error) {
	l, ok := s.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSymbolNotFound, symbol)
	}
	f := l.funds
	return &f, nil
}

// History returns days of generated daily candles, oldest first. The
// walk is seeded by the symbol so repeated calls return identical
// prices. days <= 0 defaults to 30.
func (s *Static) History(_ context.Context, symbol string, days int) ([]Candle, error) {
	l, ok := s.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSymbolNotFound, symbol)
	}
	if days <= 0 {
		days = 30
	}

	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := h.Sum64()

	// Walk backwards from the quoted price so the final close matches
	// the quote within the day's range.
	closes := make([]float64, days)
	price := l.Price
	rng := seed
	for i := days - 1; i >= 0; i-- {
		closes[i] = price
		rng = rng*6364136223846793005 + 1442695040888963407
		// Daily move in [-1.9%, +2.1%), generated deterministically.
		move := float64(int64(rng>>33)%400-190) / 10000.0
		price /= 1 + move
	}

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	candles := make([]Candle, days)
	rng = seed ^ 0x9e3779b97f4a7c15
	for i, c := range closes {
		rng = rng*6364136223846793005 + 1442695040888963407
		spread := float64(int64(rng>>33)%120+30) / 10000.0 // 0.3% to 1.5% intraday range
		open := c * (1 - spread/2)
		candles[i] = Candle{
			Date:   start.AddDate(0, 0, i+1),
			Open:   open,
			High:   c * (1 + spread),
			Low:    open * (1 - spread),
			Close:  c,
			Volume: int64(l.MarketCap/c/250) + int64(rng%1_000_000),
		}
	}
	return candles, nil
}

// Peers returns the other symbols in the symbol's sector, sorted.
func (s *Static) Peers(_ context.Context, symbol string) ([]string, error) {
	l, ok := s.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vestro.ErrSymbolNotFound, symbol)
	}

	peers := make([]string, 0, len(s.sectors[l.Sector])-1)
	for _, sym := range s.sectors[l.Sector] {
		if sym != symbol {
			peers = append(peers, sym)
		}
	}
	return peers, nil
}
