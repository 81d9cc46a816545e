package compare

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovieComparison is the merged view of one (title, year) across every
// provider that returned a price for it.
type MovieComparison struct {
	// MovieID is the id of the cheapest record, for display linking only.
	MovieID string
	Title   string
	Year    string
	Poster  string

	// Both maps hold exactly the providers that returned a detail record.
	ProviderPrices       map[string]decimal.Decimal
	ProviderAvailability map[string]bool

	CheapestProvider string
	CheapestPrice    decimal.Decimal
}

// Report summarises one comparison run.
type Report struct {
	RequestID          string
	Comparisons        []MovieComparison
	ProvidersQueried   int
	ProvidersSucceeded int
	FailedProviders    []string
	DetailsFetched     int
	DetailsFailed      int
	Elapsed            time.Duration
}
