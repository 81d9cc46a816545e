package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/sw33tLie/moviescope/pkg/providers"
)

// appConfig is everything the commands read from viper.
type appConfig struct {
	Token     string
	Timeout   time.Duration
	RetryMax  int
	RateLimit float64

	Providers []providers.ProviderConfig

	Concurrency         int
	ProviderConcurrency int

	Listen string

	OTLPEndpoint string
	ServiceName  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("movieapi.token", "")
	v.SetDefault("movieapi.timeout", "30s")
	v.SetDefault("movieapi.retrymax", 3)
	v.SetDefault("movieapi.ratelimit", 10)
	v.SetDefault("providers", []map[string]interface{}{
		{"name": "Cinemaworld", "baseurl": "https://webjetapitest.azurewebsites.net/api/cinemaworld"},
		{"name": "Filmworld", "baseurl": "https://webjetapitest.azurewebsites.net/api/filmworld"},
	})
	v.SetDefault("compare.concurrency", 0)
	v.SetDefault("compare.providerconcurrency", 0)
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("telemetry.otlpendpoint", "")
	v.SetDefault("telemetry.servicename", "moviescope")
}

func loadConfig(v *viper.Viper) (*appConfig, error) {
	cfg := &appConfig{
		Token:               strings.TrimSpace(v.GetString("movieapi.token")),
		Timeout:             v.GetDuration("movieapi.timeout"),
		RetryMax:            v.GetInt("movieapi.retrymax"),
		RateLimit:           v.GetFloat64("movieapi.ratelimit"),
		Concurrency:         v.GetInt("compare.concurrency"),
		ProviderConcurrency: v.GetInt("compare.providerconcurrency"),
		Listen:              v.GetString("server.listen"),
		OTLPEndpoint:        v.GetString("telemetry.otlpendpoint"),
		ServiceName:         v.GetString("telemetry.servicename"),
	}
	if err := v.UnmarshalKey("providers", &cfg.Providers); err != nil {
		return nil, fmt.Errorf("invalid providers config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("movieapi.timeout must be positive")
	}
	return cfg, nil
}

// requireToken is checked by the commands that call upstreams.
func (c *appConfig) requireToken() error {
	if c.Token == "" {
		return errors.New("movieapi.token is not set. Add it to the config file or export MOVIESCOPE_MOVIEAPI_TOKEN")
	}
	return nil
}
