package movieapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sw33tLie/moviescope/pkg/errs"
	"github.com/sw33tLie/moviescope/pkg/whttp"
)

const defaultCallTimeout = 30 * time.Second

// Sender is the transport the client sends its requests through.
type Sender interface {
	SendHTTPRequest(ctx context.Context, req *whttp.WHTTPReq) (*whttp.WHTTPRes, error)
}

// Config holds everything NewHTTPClient needs.
type Config struct {
	Sender      Sender
	CallTimeout time.Duration // defaults to 30s if <= 0
	Observer    Observer      // optional
	Log         Logger        // optional; nil = no logging
}

// HTTPClient is the Client implementation backed by the upstream REST API.
type HTTPClient struct {
	sender   Sender
	timeout  time.Duration
	observer Observer
	log      Logger
}

func NewHTTPClient(cfg Config) *HTTPClient {
	c := &HTTPClient{
		sender:   cfg.Sender,
		timeout:  cfg.CallTimeout,
		observer: cfg.Observer,
		log:      cfg.Log,
	}
	if c.timeout <= 0 {
		c.timeout = defaultCallTimeout
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.log == nil {
		c.log = NopLogger{}
	}
	return c
}

// ListMovies fetches {baseURL}/movies.
func (c *HTTPClient) ListMovies(ctx context.Context, baseURL, providerName string) ([]Movie, error) {
	start := time.Now()
	movies, err := c.listMovies(ctx, baseURL, providerName)
	c.observer.CallFinished(baseURL, EndpointMovies, time.Since(start), err)
	return movies, err
}

func (c *HTTPClient) listMovies(ctx context.Context, baseURL, providerName string) ([]Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := strings.TrimRight(baseURL, "/") + "/movies"
	c.log.Infof("Fetching movies from %s at %s", providerName, target)

	res, err := c.sender.SendHTTPRequest(ctx, &whttp.WHTTPReq{Method: http.MethodGet, URL: target})
	if err != nil {
		c.log.Warnf("%s movies API request failed: %v", providerName, err)
		return nil, transportError(ctx, baseURL, err)
	}

	c.log.Debugf("%s movies API response status: %d", providerName, res.StatusCode)

	if !res.IsSuccess() {
		c.log.Warnf("%s movies API returned %d%s", providerName, res.StatusCode, titleSuffix(res))
		return nil, errs.New(errs.KindUpstreamError,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage(fmt.Sprintf("%s service returned %d%s", providerName, res.StatusCode, titleSuffix(res))))
	}

	if strings.TrimSpace(res.BodyString) == "" {
		c.log.Warnf("%s returned empty response", providerName)
		return nil, errs.New(errs.KindEmptyResponse,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage(providerName+" returned empty response"))
	}

	movies, err := parseMovieList([]byte(res.BodyString))
	if err != nil {
		c.log.Warnf("%s returned unexpected data format: %v", providerName, err)
		return nil, errs.New(errs.KindUnexpectedFormat,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage(providerName+" returned unexpected data format"+titleSuffix(res)),
			errs.WithCause(err))
	}

	listed := movies[:0]
	for _, m := range movies {
		if strings.TrimSpace(m.ID) == "" {
			c.log.Debugf("%s listed %q without an id, skipping", providerName, m.Title)
			continue
		}
		listed = append(listed, m)
	}

	c.log.Infof("Successfully retrieved %d movies from %s", len(listed), providerName)
	return listed, nil
}

// GetMovieDetail fetches {baseURL}/movie/{movieID}.
func (c *HTTPClient) GetMovieDetail(ctx context.Context, movieID, baseURL string) (*MovieDetail, error) {
	start := time.Now()
	detail, err := c.getMovieDetail(ctx, movieID, baseURL)
	c.observer.CallFinished(baseURL, EndpointMovie, time.Since(start), err)
	return detail, err
}

func (c *HTTPClient) getMovieDetail(ctx context.Context, movieID, baseURL string) (*MovieDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := strings.TrimRight(baseURL, "/") + "/movie/" + url.PathEscape(movieID)
	c.log.Debugf("Fetching movie details for %s from %s", movieID, baseURL)

	res, err := c.sender.SendHTTPRequest(ctx, &whttp.WHTTPReq{Method: http.MethodGet, URL: target})
	if err != nil {
		c.log.Warnf("Movie details request for %s failed: %v", movieID, err)
		return nil, transportError(ctx, baseURL, err)
	}

	if !res.IsSuccess() {
		c.log.Warnf("Movie details API returned %d for movie %s%s", res.StatusCode, movieID, titleSuffix(res))
		if res.StatusCode == http.StatusNotFound {
			return nil, errs.New(errs.KindNotFound,
				errs.WithUpstream(baseURL),
				errs.WithStatus(res.StatusCode),
				errs.WithMessage("Movie not found"))
		}
		return nil, errs.New(errs.KindServiceError,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage("Service error"))
	}

	if strings.TrimSpace(res.BodyString) == "" {
		c.log.Warnf("Empty response for movie %s", movieID)
		return nil, errs.New(errs.KindEmptyResponse,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage("Empty response from service"))
	}

	detail, err := parseMovieDetail([]byte(res.BodyString))
	if err != nil {
		c.log.Warnf("Failed to deserialize movie details for %s: %v", movieID, err)
		return nil, errs.New(errs.KindDeserialization,
			errs.WithUpstream(baseURL),
			errs.WithStatus(res.StatusCode),
			errs.WithMessage("Invalid movie data format"),
			errs.WithCause(err))
	}

	c.log.Debugf("Successfully deserialized movie details for %s. Price: %s", movieID, detail.Price)
	return detail, nil
}

// transportError classifies a failed round trip. ctx is the per-call context,
// so an expired deadline or a cancelled parent both read as a timeout of this
// call only.
func transportError(ctx context.Context, upstream string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || isTimeout(err) {
		return errs.New(errs.KindTimeout,
			errs.WithUpstream(upstream),
			errs.WithMessage("request timed out"),
			errs.WithCause(err))
	}
	return errs.New(errs.KindProviderUnavailable,
		errs.WithUpstream(upstream),
		errs.WithMessage("provider unreachable"),
		errs.WithCause(err))
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func titleSuffix(res *whttp.WHTTPRes) string {
	if res == nil || res.HTTPTitle == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", res.HTTPTitle)
}
