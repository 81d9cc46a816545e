package utils

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
}

func TestRetryLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	RetryLogger{L: l}.Debug("retrying request", "request", "GET https://cw.example.com/movies", "retries", 2)
	RetryLogger{L: l}.Error("giving up", "odd")

	out := buf.String()
	assert.Contains(t, out, `msg="retrying request"`)
	assert.Contains(t, out, "retries=2")
	assert.Contains(t, out, `request="GET https://cw.example.com/movies"`)
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "extra=odd")
}
