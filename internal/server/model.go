package server

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/sw33tLie/moviescope/pkg/compare"
)

type apiResponse struct {
	Success      bool        `json:"success"`
	Data         interface{} `json:"data"`
	ErrorMessage string      `json:"errorMessage"`
}

type movieComparisonResponse struct {
	MovieID              string                 `json:"movieId"`
	Title                string                 `json:"title"`
	Year                 string                 `json:"year"`
	Poster               string                 `json:"poster"`
	ProviderAvailability map[string]bool        `json:"providerAvailability"`
	ProviderPrices       map[string]json.Number `json:"providerPrices"`
	CheapestProvider     string                 `json:"cheapestProvider"`
	CheapestPrice        json.Number            `json:"cheapestPrice"`
}

type healthCheck struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

type healthResponse struct {
	Status string        `json:"status"`
	Checks []healthCheck `json:"checks"`
}

// prices are emitted as JSON numbers; the UI formats them with toFixed.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toMovieComparisonResponses(in []compare.MovieComparison) []movieComparisonResponse {
	out := make([]movieComparisonResponse, 0, len(in))
	for _, c := range in {
		prices := make(map[string]json.Number, len(c.ProviderPrices))
		for name, p := range c.ProviderPrices {
			prices[name] = number(p)
		}
		available := make(map[string]bool, len(c.ProviderAvailability))
		for name, ok := range c.ProviderAvailability {
			available[name] = ok
		}
		out = append(out, movieComparisonResponse{
			MovieID:              c.MovieID,
			Title:                c.Title,
			Year:                 c.Year,
			Poster:               c.Poster,
			ProviderAvailability: available,
			ProviderPrices:       prices,
			CheapestProvider:     c.CheapestProvider,
			CheapestPrice:        number(c.CheapestPrice),
		})
	}
	return out
}
