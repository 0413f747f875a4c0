package testutil

import (
	"context"
	"fmt"
	"sync"
)

// StubPriceSource is a deterministic price source for tests. Tickers present
// in Prices resolve to their mapped value; all others fail with an error, so
// tests can exercise both the fail-closed write path and fail-open enrichment.
type StubPriceSource struct {
	Prices map[string]float64

	mu    sync.Mutex
	calls []string
}

// CurrentPrice implements the pricing source contract.
func (s *StubPriceSource) CurrentPrice(_ context.Context, ticker string) (float64, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ticker)
	s.mu.Unlock()

	price, ok := s.Prices[ticker]
	if !ok {
		return 0, fmt.Errorf("no price for %s", ticker)
	}
	return price, nil
}

// Calls returns the tickers requested so far, in order.
func (s *StubPriceSource) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
