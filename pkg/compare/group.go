package compare

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sw33tLie/moviescope/pkg/movieapi"
)

type movieKey struct {
	title string
	year  string
}

// groupRecords merges priced records into comparisons. records must already be
// in registry order then listing order; groups keep discovery order and the
// stable sort keeps that order among equal prices.
func groupRecords(records []movieapi.MovieDetail) []MovieComparison {
	index := make(map[movieKey]int)
	var groups [][]movieapi.MovieDetail

	for _, r := range records {
		k := movieKey{title: r.Title, year: r.Year}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}

	comparisons := make([]MovieComparison, 0, len(groups))
	for _, g := range groups {
		comparisons = append(comparisons, buildComparison(g))
	}
	return comparisons
}

func buildComparison(group []movieapi.MovieDetail) MovieComparison {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Price.LessThan(group[j].Price)
	})

	cheapest := group[0]
	prices := make(map[string]decimal.Decimal, len(group))
	available := make(map[string]bool, len(group))
	for _, r := range group {
		// a provider listing the same movie twice keeps its lowest price
		if _, seen := prices[r.Provider]; seen {
			continue
		}
		prices[r.Provider] = r.Price
		available[r.Provider] = true
	}

	return MovieComparison{
		MovieID:              cheapest.ID,
		Title:                cheapest.Title,
		Year:                 cheapest.Year,
		Poster:               cheapest.Poster,
		ProviderPrices:       prices,
		ProviderAvailability: available,
		CheapestProvider:     cheapest.Provider,
		CheapestPrice:        cheapest.Price,
	}
}
