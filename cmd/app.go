package cmd

import (
	"context"

	"github.com/sw33tLie/moviescope/internal/telemetry"
	"github.com/sw33tLie/moviescope/internal/utils"
	"github.com/sw33tLie/moviescope/pkg/compare"
	"github.com/sw33tLie/moviescope/pkg/movieapi"
	"github.com/sw33tLie/moviescope/pkg/providers"
	"github.com/sw33tLie/moviescope/pkg/whttp"
)

// app holds the wired components shared by serve and compare.
type app struct {
	cfg       *appConfig
	registry  *providers.Registry
	transport *whttp.Client
	engine    *compare.Engine
	telemetry *telemetry.Provider
}

func newApp(ctx context.Context, cfg *appConfig, proxy string) (*app, error) {
	if err := cfg.requireToken(); err != nil {
		return nil, err
	}

	registry, err := providers.NewRegistry(cfg.Providers...)
	if err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		utils.Log.Warn("No movie providers configured, every comparison will fail")
	}

	transport, err := whttp.New(whttp.Options{
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		RetryMax:  cfg.RetryMax,
		RateLimit: cfg.RateLimit,
		LimitKey: func(host string) string {
			return providers.RegistrableHost("http://" + host)
		},
		Proxy:  proxy,
		Logger: utils.RetryLogger{L: utils.Log},
	})
	if err != nil {
		return nil, err
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		OTLPEndpoint: cfg.OTLPEndpoint,
		ServiceName:  cfg.ServiceName,
	})
	if err != nil {
		return nil, err
	}
	metrics, err := telemetry.NewMetrics(tp.Meter())
	if err != nil {
		return nil, err
	}

	client := movieapi.NewHTTPClient(movieapi.Config{
		Sender:      transport,
		CallTimeout: cfg.Timeout,
		Observer:    metrics,
		Log:         utils.Log,
	})

	engine, err := compare.New(compare.Config{
		Registry:            registry,
		Client:              client,
		Concurrency:         cfg.Concurrency,
		ProviderConcurrency: cfg.ProviderConcurrency,
		Log:                 utils.Log,
		Observer:            metrics,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		registry:  registry,
		transport: transport,
		engine:    engine,
		telemetry: tp,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil {
		utils.Log.Warnf("Failed to flush telemetry: %v", err)
	}
}
