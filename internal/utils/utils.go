package utils

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

// ParseLogLevel maps a --loglevel value to a logrus level.
func ParseLogLevel(level string) (logrus.Level, error) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warning", "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("bad log level %q", level)
	}
}

func SetLogLevel(level string) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		log.Fatal("Bad error level string")
	}
	Log.SetLevel(lvl)
}

// RetryLogger adapts a logrus logger to retryablehttp's LeveledLogger.
// Retry chatter is demoted one level so a flaky upstream does not flood info.
type RetryLogger struct {
	L *logrus.Logger
}

var _ retryablehttp.LeveledLogger = RetryLogger{}

func (r RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.L.WithFields(fields(keysAndValues)).Warn(msg)
}

func (r RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	r.L.WithFields(fields(keysAndValues)).Debug(msg)
}

func (r RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.L.WithFields(fields(keysAndValues)).Debug(msg)
}

func (r RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.L.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	if len(keysAndValues)%2 == 1 {
		f["extra"] = keysAndValues[len(keysAndValues)-1]
	}
	return f
}
