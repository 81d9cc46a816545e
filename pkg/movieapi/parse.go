package movieapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Listing responses come in two shapes, tried in this order:
//
//	{"Movies": [...]}                  wrapper
//	{"success": true, "data": [...]}   envelope
//
// Both are still served upstream; neither has been confirmed as legacy.
func parseMovieList(body []byte) ([]Movie, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", root.Type)
	}

	if movies, ok := field(root, "Movies"); ok && movies.IsArray() {
		return decodeMovies(movies.Raw)
	}

	success, _ := field(root, "success")
	if data, ok := field(root, "data"); ok && success.Type == gjson.True && data.IsArray() {
		return decodeMovies(data.Raw)
	}

	if success.Exists() && !success.Bool() {
		msg, _ := field(root, "errorMessage")
		if m := strings.TrimSpace(msg.String()); m != "" {
			return nil, fmt.Errorf("upstream reported failure: %s", m)
		}
		return nil, errors.New("upstream reported failure")
	}
	return nil, errors.New("no movie list in response")
}

func decodeMovies(raw string) ([]Movie, error) {
	var movies []Movie
	if err := json.Unmarshal([]byte(raw), &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

// wireDetail mirrors the detail body; Price may be a number or a numeric string.
type wireDetail struct {
	ID        string              `json:"ID"`
	Title     string              `json:"Title"`
	Type      string              `json:"Type"`
	Year      string              `json:"Year"`
	Poster    string              `json:"Poster"`
	Rated     string              `json:"Rated"`
	Released  string              `json:"Released"`
	Runtime   string              `json:"Runtime"`
	Genre     string              `json:"Genre"`
	Director  string              `json:"Director"`
	Writer    string              `json:"Writer"`
	Actors    string              `json:"Actors"`
	Plot      string              `json:"Plot"`
	Language  string              `json:"Language"`
	Country   string              `json:"Country"`
	Metascore string              `json:"Metascore"`
	Rating    string              `json:"Rating"`
	Votes     string              `json:"Votes"`
	Price     decimal.NullDecimal `json:"Price"`
}

func parseMovieDetail(body []byte) (*MovieDetail, error) {
	var w wireDetail
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode movie detail: %w", err)
	}
	if !w.Price.Valid {
		return nil, errors.New("movie detail has no price")
	}
	return &MovieDetail{
		Movie: Movie{
			ID:     w.ID,
			Title:  w.Title,
			Type:   w.Type,
			Year:   w.Year,
			Poster: w.Poster,
		},
		Rated:     w.Rated,
		Released:  w.Released,
		Runtime:   w.Runtime,
		Genre:     w.Genre,
		Director:  w.Director,
		Writer:    w.Writer,
		Actors:    w.Actors,
		Plot:      w.Plot,
		Language:  w.Language,
		Country:   w.Country,
		Metascore: w.Metascore,
		Rating:    w.Rating,
		Votes:     w.Votes,
		Price:     w.Price.Decimal,
	}, nil
}

// field looks up a top-level key, preferring an exact match and falling back
// to a case-insensitive one.
func field(obj gjson.Result, name string) (gjson.Result, bool) {
	if r := obj.Get(name); r.Exists() {
		return r, true
	}
	var found gjson.Result
	ok := false
	obj.ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(key.String(), name) {
			found, ok = value, true
			return false
		}
		return true
	})
	return found, ok
}
