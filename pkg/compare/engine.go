// Package compare fans out to every configured provider, collects priced
// records and reduces them to one comparison per movie.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
	"github.com/sw33tLie/moviescope/pkg/errs"
	"github.com/sw33tLie/moviescope/pkg/movieapi"
	"github.com/sw33tLie/moviescope/pkg/providers"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Observer receives a summary of every completed run.
type Observer interface {
	RunFinished(r Report)
}

type nopObserver struct{}

func (nopObserver) RunFinished(Report) {}

// Config holds everything New needs.
type Config struct {
	Registry *providers.Registry
	Client   movieapi.Client
	// Concurrency bounds detail fetches per provider. 0 = one goroutine per movie.
	Concurrency int
	// ProviderConcurrency bounds providers processed at once. 0 = all of them.
	ProviderConcurrency int
	Log                 Logger   // optional; nil = no logging
	Observer            Observer // optional
}

// Engine runs comparisons. It is safe for concurrent use.
type Engine struct {
	registry            *providers.Registry
	client              movieapi.Client
	concurrency         int
	providerConcurrency int
	log                 Logger
	observer            Observer
}

func New(cfg Config) (*Engine, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("compare: a movie client is required")
	}
	if cfg.Concurrency < 0 || cfg.ProviderConcurrency < 0 {
		return nil, fmt.Errorf("compare: concurrency must not be negative")
	}
	e := &Engine{
		registry:            cfg.Registry,
		client:              cfg.Client,
		concurrency:         cfg.Concurrency,
		providerConcurrency: cfg.ProviderConcurrency,
		log:                 cfg.Log,
		observer:            cfg.Observer,
	}
	if e.registry == nil {
		e.registry, _ = providers.NewRegistry()
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	return e, nil
}

// Compare returns one comparison per distinct (title, year).
func (e *Engine) Compare(ctx context.Context) ([]MovieComparison, error) {
	r, err := e.Run(ctx)
	if err != nil {
		return nil, err
	}
	return r.Comparisons, nil
}

// providerResult is what one provider contributed to a run.
type providerResult struct {
	listed  bool
	records []movieapi.MovieDetail
	failed  int
}

// Run performs a full comparison. Only an empty registry or an unexpected
// internal failure makes it return an error; provider and movie failures are
// logged and left out of the result.
func (e *Engine) Run(ctx context.Context) (report *Report, err error) {
	start := time.Now()
	requestID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			e.log.Errorf("[%s] comparison run panicked: %v", requestID, rec)
			report = nil
			err = errs.New(errs.KindInternal,
				errs.WithMessage(errs.PublicMessage(errs.KindInternal)),
				errs.WithCause(fmt.Errorf("panic: %v", rec)))
		}
	}()

	provs := e.registry.All()
	if len(provs) == 0 {
		e.log.Warnf("[%s] No movie providers configured", requestID)
		return nil, errs.New(errs.KindNoProvidersConfigured,
			errs.WithMessage(errs.PublicMessage(errs.KindNoProvidersConfigured)))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errs.New(errs.KindInternal,
			errs.WithMessage(errs.PublicMessage(errs.KindInternal)),
			errs.WithCause(ctxErr))
	}

	e.log.Infof("[%s] Comparing prices across %d providers", requestID, len(provs))

	mapper := iter.Mapper[providers.ProviderConfig, providerResult]{
		MaxGoroutines: boundOrAll(e.providerConcurrency, len(provs)),
	}
	results := mapper.Map(provs, func(p *providers.ProviderConfig) providerResult {
		return e.collect(ctx, requestID, *p)
	})

	report = &Report{
		RequestID:        requestID,
		ProvidersQueried: len(provs),
		FailedProviders:  []string{},
	}
	var pooled []movieapi.MovieDetail
	for i, res := range results {
		if !res.listed {
			report.FailedProviders = append(report.FailedProviders, provs[i].Name)
			continue
		}
		report.ProvidersSucceeded++
		report.DetailsFetched += len(res.records)
		report.DetailsFailed += res.failed
		pooled = append(pooled, res.records...)
	}

	report.Comparisons = groupRecords(pooled)
	report.Elapsed = time.Since(start)

	e.log.Infof("[%s] Compared %d movies from %d/%d providers in %s",
		requestID, len(report.Comparisons), report.ProvidersSucceeded, report.ProvidersQueried, report.Elapsed)
	e.observer.RunFinished(*report)
	return report, nil
}

// collect lists one provider and fetches every detail concurrently.
func (e *Engine) collect(ctx context.Context, requestID string, p providers.ProviderConfig) providerResult {
	movies, err := e.client.ListMovies(ctx, p.BaseURL, p.Name)
	if err != nil {
		e.log.Warnf("[%s] Skipping provider %s: %v", requestID, p.Name, err)
		return providerResult{}
	}
	if len(movies) == 0 {
		return providerResult{listed: true}
	}

	mapper := iter.Mapper[movieapi.Movie, *movieapi.MovieDetail]{
		MaxGoroutines: boundOrAll(e.concurrency, len(movies)),
	}
	details := mapper.Map(movies, func(m *movieapi.Movie) *movieapi.MovieDetail {
		d, err := e.client.GetMovieDetail(ctx, m.ID, p.BaseURL)
		if err != nil {
			e.log.Warnf("[%s] Skipping movie %s from %s: %v", requestID, m.ID, p.Name, err)
			return nil
		}
		if d == nil {
			e.log.Warnf("[%s] Skipping movie %s from %s: no detail returned", requestID, m.ID, p.Name)
			return nil
		}
		rec := *d
		// identity comes from the listing so records group consistently
		rec.ID = m.ID
		rec.Title = m.Title
		rec.Year = m.Year
		rec.Poster = m.Poster
		rec.Provider = p.Name
		return &rec
	})

	res := providerResult{listed: true, records: make([]movieapi.MovieDetail, 0, len(details))}
	for _, d := range details {
		if d == nil {
			res.failed++
			continue
		}
		res.records = append(res.records, *d)
	}
	e.log.Debugf("[%s] %s: %d priced, %d failed", requestID, p.Name, len(res.records), res.failed)
	return res
}

func boundOrAll(limit, n int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}
