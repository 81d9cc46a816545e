// Package movieapi talks to upstream movie providers: one listing call per
// provider and one detail call per movie.
package movieapi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EndpointMovies = "movies"
	EndpointMovie  = "movie"
)

// Movie is a summary as listed by one provider. It carries no price.
type Movie struct {
	ID     string `json:"ID"`
	Title  string `json:"Title"`
	Type   string `json:"Type,omitempty"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// MovieDetail is one provider's full record for a movie, including its price.
type MovieDetail struct {
	Movie

	Rated     string `json:"Rated,omitempty"`
	Released  string `json:"Released,omitempty"`
	Runtime   string `json:"Runtime,omitempty"`
	Genre     string `json:"Genre,omitempty"`
	Director  string `json:"Director,omitempty"`
	Writer    string `json:"Writer,omitempty"`
	Actors    string `json:"Actors,omitempty"`
	Plot      string `json:"Plot,omitempty"`
	Language  string `json:"Language,omitempty"`
	Country   string `json:"Country,omitempty"`
	Metascore string `json:"Metascore,omitempty"`
	Rating    string `json:"Rating,omitempty"`
	Votes     string `json:"Votes,omitempty"`

	Price decimal.Decimal `json:"Price"`
	// Provider is stamped by the caller; upstream bodies do not carry it.
	Provider string `json:"Provider,omitempty"`
}

// Client fetches listings and details from one upstream at a time. Every call
// is an independent GET; failures come back as *errs.E.
//
//go:generate mockgen -destination=mocks/mock_client.go -package=mock_movieapi github.com/sw33tLie/moviescope/pkg/movieapi Client
type Client interface {
	ListMovies(ctx context.Context, baseURL, providerName string) ([]Movie, error)
	GetMovieDetail(ctx context.Context, movieID, baseURL string) (*MovieDetail, error)
}

// Observer receives one event per upstream call.
type Observer interface {
	CallFinished(upstream, endpoint string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) CallFinished(string, string, time.Duration, error) {}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// NopLogger silently discards all messages.
type NopLogger struct{}

func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}
func (NopLogger) Debugf(string, ...interface{}) {}
