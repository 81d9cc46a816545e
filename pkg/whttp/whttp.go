package whttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	USER_AGENT = "moviescope/2 (+https://github.com/sw33tLie/moviescope)"

	// AccessTokenHeader carries the static upstream credential.
	AccessTokenHeader = "x-access-token"

	defaultTimeout  = 30 * time.Second
	defaultRetryMax = 3
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode     int
	ContentType    string
	ResponseLength int
	HTTPTitle      string
	BodyString     string
}

// Options configures a Client.
type Options struct {
	// Token is sent as x-access-token on every request when non-empty.
	Token string
	// Timeout bounds each attempt; callers bound the whole call with ctx.
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax int
	// RateLimit is the request budget per second for each upstream host.
	// Zero or negative disables limiting.
	RateLimit float64
	// LimitKey maps a request host to its rate limit bucket. Nil buckets by
	// the lowercased host.
	LimitKey func(host string) string
	Proxy    string
	// Logger receives retry diagnostics. It may be a retryablehttp.Logger or
	// retryablehttp.LeveledLogger; nil discards them.
	Logger interface{}
}

// Client sends upstream requests through a retrying, rate-limited transport.
type Client struct {
	http    *retryablehttp.Client
	token   string
	limiter *hostLimiter
}

func New(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retryMax := opts.RetryMax
	if retryMax < 0 {
		retryMax = defaultRetryMax
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = opts.Logger
	// Hand the last response back so callers can classify the status code
	// instead of getting a generic "giving up" error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = timeout

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		retryClient.HTTPClient.Transport = &http.Transport{
			Proxy:                 http.ProxyURL(proxyURL),
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		}
	}

	return &Client{
		http:    retryClient,
		token:   strings.TrimSpace(opts.Token),
		limiter: newHostLimiter(opts.RateLimit, opts.LimitKey),
	}, nil
}

// SendHTTPRequest performs wReq and reads the full body. Non-2xx statuses are
// not errors; only transport failures (after retries) are.
func (c *Client) SendHTTPRequest(ctx context.Context, wReq *WHTTPReq) (*WHTTPRes, error) {
	method := wReq.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, wReq.URL, nil)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx, req.URL.Host); err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	if c.token != "" {
		req.Header.Set(AccessTokenHeader, c.token)
	}
	for _, h := range wReq.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes := &WHTTPRes{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		BodyString:  string(bodyBytes),
	}

	if isHTML(wRes.ContentType, wRes.BodyString) {
		if title, ok := getHTMLTitle(wRes.BodyString); ok {
			wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
		}
	}

	wRes.ResponseLength = utf8.RuneCountInString(wRes.BodyString)
	return wRes, nil
}

// IsSuccess reports a 2xx status.
func (r *WHTTPRes) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

func isHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<!") || strings.HasPrefix(strings.ToLower(trimmed), "<html")
}

func getHTMLTitle(body string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}
