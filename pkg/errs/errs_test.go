package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormattingIncludesFields(t *testing.T) {
	err := New(
		KindUpstreamError,
		WithUpstream(" https://example.com/api/cinemaworld "),
		WithStatus(503),
		WithMessage("Cinemaworld service returned 503"),
		WithCause(errors.New("boom")),
	)

	out := err.Error()
	assert.Contains(t, out, "kind=upstream_error")
	assert.Contains(t, out, "upstream=https://example.com/api/cinemaworld")
	assert.Contains(t, out, "status=503")
	assert.Contains(t, out, `message="Cinemaworld service returned 503"`)
	assert.Contains(t, out, `cause="boom"`)
}

func TestErrorOmitsEmptyFields(t *testing.T) {
	out := New(KindTimeout).Error()
	assert.Equal(t, "kind=timeout", out)
	assert.False(t, strings.Contains(out, "status="))
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("list movies: %w", New(KindNotFound))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(nil, KindNotFound))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := New(KindProviderUnavailable, WithCause(cause))
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatusAndPublicMessage(t *testing.T) {
	tests := []struct {
		kind    Kind
		status  int
		message string
	}{
		{KindNoProvidersConfigured, http.StatusInternalServerError, "No movie providers configured"},
		{KindInternal, http.StatusInternalServerError, "An error occurred"},
		{KindTimeout, http.StatusGatewayTimeout, "Request timeout - please try again"},
		{KindNotFound, http.StatusNotFound, "Resource not found"},
		{KindUpstreamError, http.StatusBadGateway, "External service is currently unavailable"},
		{KindDeserialization, http.StatusBadGateway, "External service is currently unavailable"},
		{Kind("something_new"), http.StatusInternalServerError, "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.kind))
			assert.Equal(t, tt.message, PublicMessage(tt.kind))
		})
	}
}
