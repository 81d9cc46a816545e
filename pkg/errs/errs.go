// Package errs provides the tagged error type shared by the movie client, the
// comparison engine and the HTTP API.
package errs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Kind identifies a failure category.
type Kind string

const (
	// KindNoProvidersConfigured means the provider registry is empty.
	KindNoProvidersConfigured Kind = "no_providers_configured"
	// KindProviderUnavailable means the upstream could not be reached.
	KindProviderUnavailable Kind = "provider_unavailable"
	// KindUpstreamError means the listing endpoint answered with a non-2xx status.
	KindUpstreamError Kind = "upstream_error"
	// KindEmptyResponse means the upstream answered 2xx with a blank body.
	KindEmptyResponse Kind = "empty_response"
	// KindUnexpectedFormat means a listing body matched none of the accepted shapes.
	KindUnexpectedFormat Kind = "unexpected_format"
	// KindDeserialization means a detail body could not be decoded.
	KindDeserialization Kind = "deserialization_error"
	// KindNotFound means the detail endpoint answered 404.
	KindNotFound Kind = "not_found"
	// KindServiceError means the detail endpoint answered with another non-2xx status.
	KindServiceError Kind = "service_error"
	// KindTimeout means the call ran out of time.
	KindTimeout Kind = "timeout"
	// KindInternal captures everything unexpected.
	KindInternal Kind = "internal_error"
)

// E is the error envelope returned by every fallible operation.
type E struct {
	Kind     Kind
	Upstream string
	Status   int
	Message  string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error of the given kind.
func New(kind Kind, opts ...Option) *E {
	e := &E{Kind: kind}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithUpstream records the upstream (base URL or provider name) involved.
func WithUpstream(upstream string) Option {
	trimmed := strings.TrimSpace(upstream)
	return func(e *E) {
		e.Upstream = trimmed
	}
}

// WithStatus records the upstream HTTP status code.
func WithStatus(status int) Option {
	return func(e *E) {
		e.Status = status
	}
}

// WithMessage attaches a human-readable message.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithCause sets the underlying cause.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	kind := strings.TrimSpace(string(e.Kind))
	if kind == "" {
		kind = string(KindInternal)
	}
	parts := []string{"kind=" + kind}
	if e.Upstream != "" {
		parts = append(parts, "upstream="+e.Upstream)
	}
	if e.Status > 0 {
		parts = append(parts, "status="+strconv.Itoa(e.Status))
	}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}
	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// KindOf extracts the kind of err. Errors that are not envelopes are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *E
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code the public API answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case "":
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindProviderUnavailable, KindUpstreamError, KindServiceError,
		KindEmptyResponse, KindUnexpectedFormat, KindDeserialization:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage maps a kind to the message shown to API consumers. It never
// leaks upstream details.
func PublicMessage(kind Kind) string {
	switch kind {
	case "":
		return ""
	case KindNoProvidersConfigured:
		return "No movie providers configured"
	case KindNotFound:
		return "Resource not found"
	case KindTimeout:
		return "Request timeout - please try again"
	case KindProviderUnavailable, KindUpstreamError, KindServiceError,
		KindEmptyResponse, KindUnexpectedFormat, KindDeserialization:
		return "External service is currently unavailable"
	default:
		return "An error occurred"
	}
}
