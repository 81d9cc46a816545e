package movieapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/moviescope/pkg/errs"
	"github.com/sw33tLie/moviescope/pkg/whttp"
)

type call struct {
	upstream string
	endpoint string
	err      error
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []call
}

func (o *recordingObserver) CallFinished(upstream, endpoint string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call{upstream, endpoint, err})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*HTTPClient, *recordingObserver, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sender, err := whttp.New(whttp.Options{Token: "tkn", RetryMax: 0})
	require.NoError(t, err)

	obs := &recordingObserver{}
	return NewHTTPClient(Config{Sender: sender, CallTimeout: timeout, Observer: obs}), obs, srv.URL
}

func TestListMovies(t *testing.T) {
	var gotPath, gotToken string
	c, obs, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get(whttp.AccessTokenHeader)
		w.Write([]byte(`{"Movies":[{"ID":"cw1","Title":"Alien","Year":"1979"},{"ID":"","Title":"No id","Year":"2000"}]}`))
	}, time.Second)

	movies, err := c.ListMovies(context.Background(), base+"/", "Cinemaworld")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "cw1", movies[0].ID)
	assert.Equal(t, "/movies", gotPath)
	assert.Equal(t, "tkn", gotToken)

	require.Len(t, obs.calls, 1)
	assert.Equal(t, base+"/", obs.calls[0].upstream)
	assert.Equal(t, EndpointMovies, obs.calls[0].endpoint)
	assert.NoError(t, obs.calls[0].err)
}

func TestListMoviesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		ctype   string
		body    string
		kind    errs.Kind
		message string
	}{
		{"non 2xx", http.StatusForbidden, "", `{}`, errs.KindUpstreamError, "Cinemaworld service returned 403"},
		{"gateway page", http.StatusBadGateway, "text/html", `<html><title>502 Bad Gateway</title></html>`, errs.KindUpstreamError, "Cinemaworld service returned 502 (502 Bad Gateway)"},
		{"blank body", http.StatusOK, "", "  ", errs.KindEmptyResponse, "Cinemaworld returned empty response"},
		{"unknown shape", http.StatusOK, "", `{"items":[]}`, errs.KindUnexpectedFormat, "Cinemaworld returned unexpected data format"},
		{"failed envelope", http.StatusOK, "", `{"success":false,"errorMessage":"nope"}`, errs.KindUnexpectedFormat, "Cinemaworld returned unexpected data format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, obs, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.ctype != "" {
					w.Header().Set("Content-Type", tt.ctype)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, time.Second)

			movies, err := c.ListMovies(context.Background(), base, "Cinemaworld")
			assert.Nil(t, movies)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))

			var e *errs.E
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, base, e.Upstream)

			require.Len(t, obs.calls, 1)
			assert.Same(t, err, obs.calls[0].err)
		})
	}
}

func TestGetMovieDetail(t *testing.T) {
	var gotPath string
	c, obs, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"ID":"fw 1","Title":"Alien","Year":"1979","Price":"10.00"}`))
	}, time.Second)

	d, err := c.GetMovieDetail(context.Background(), "fw 1", base)
	require.NoError(t, err)
	assert.Equal(t, "/movie/fw%201", gotPath)
	assert.Equal(t, "10", d.Price.String())
	assert.Equal(t, "Alien", d.Title)

	require.Len(t, obs.calls, 1)
	assert.Equal(t, EndpointMovie, obs.calls[0].endpoint)
}

func TestGetMovieDetailErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   errs.Kind
	}{
		{"not found", http.StatusNotFound, ``, errs.KindNotFound},
		{"server error", http.StatusInternalServerError, `oops`, errs.KindServiceError},
		{"unauthorized", http.StatusUnauthorized, ``, errs.KindServiceError},
		{"blank body", http.StatusOK, ``, errs.KindEmptyResponse},
		{"no price", http.StatusOK, `{"ID":"x","Title":"y"}`, errs.KindDeserialization},
		{"null price", http.StatusOK, `{"ID":"x","Price":null}`, errs.KindDeserialization},
		{"garbage", http.StatusOK, `not json`, errs.KindDeserialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, time.Second)

			d, err := c.GetMovieDetail(context.Background(), "x", base)
			assert.Nil(t, d)
			assert.Equal(t, tt.kind, errs.KindOf(err))
		})
	}
}

func TestCallTimeout(t *testing.T) {
	c, _, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	_, err := c.GetMovieDetail(context.Background(), "slow", base)
	assert.Equal(t, errs.KindTimeout, errs.KindOf(err))
}

func TestCallerCancellationIsTimeout(t *testing.T) {
	c, _, base := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Movies":[]}`))
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListMovies(ctx, base, "Cinemaworld")
	assert.Equal(t, errs.KindTimeout, errs.KindOf(err))
}

func TestUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	sender, err := whttp.New(whttp.Options{RetryMax: 0})
	require.NoError(t, err)
	c := NewHTTPClient(Config{Sender: sender, CallTimeout: time.Second})

	_, err = c.ListMovies(context.Background(), base, "Gone")
	assert.Equal(t, errs.KindProviderUnavailable, errs.KindOf(err))
}
