// Package pipeline runs every configured source through its adapter and the sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"econfetch/internal/adapters"
	"econfetch/internal/config"
	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/internal/sink"
)

// ErrAdapterPanic wraps a panic recovered from an adapter.
var ErrAdapterPanic = errors.New("adapter panicked")

// Runner processes sources one at a time. A failing source never stops the others.
type Runner struct {
	registry *adapters.Registry
	sink     *sink.Sink
	logger   *logger.Logger
}

// NewRunner creates a runner.
func NewRunner(registry *adapters.Registry, s *sink.Sink, log *logger.Logger) *Runner {
	return &Runner{
		registry: registry,
		sink:     s,
		logger:   log,
	}
}

// Run processes sources in order and returns one outcome per source, in the same order.
func (r *Runner) Run(ctx context.Context, sources []config.SourceConfig) []models.Outcome {
	if err := r.sink.Prepare(); err != nil {
		r.logger.Error("failed to prepare output directory", "dir", r.sink.Dir(), "error", err)
	}

	outcomes := make([]models.Outcome, 0, len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			outcome := models.Outcome{Source: src.Name, Adapter: src.AdapterID(), Status: models.StatusFailed, Err: err}
			r.logger.Error("source skipped", "source", src.Name, "error", err)
			outcomes = append(outcomes, outcome)

			continue
		}

		outcome := r.runSource(ctx, src)
		r.logOutcome(outcome)
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (r *Runner) runSource(ctx context.Context, src config.SourceConfig) models.Outcome {
	startTime := time.Now()
	outcome := models.Outcome{Source: src.Name, Adapter: src.AdapterID()}

	fail := func(err error) models.Outcome {
		outcome.Status = models.StatusFailed
		outcome.Err = err
		outcome.Duration = time.Since(startTime)

		return outcome
	}

	adapter, err := r.registry.Lookup(src.AdapterID())
	if err != nil {
		return fail(err)
	}

	outcome.Adapter = adapter.ID()

	result, err := r.fetch(ctx, adapter, src)
	if err != nil {
		return fail(err)
	}

	written, err := r.sink.Write(result.Table, src.Name)
	if err != nil {
		return fail(err)
	}

	outcome.Duration = time.Since(startTime)

	switch {
	case result.ShapeMismatch != "":
		outcome.Status = models.StatusUnexpectedShape
		outcome.Detail = result.ShapeMismatch
	case written.Skipped:
		outcome.Status = models.StatusEmpty
	default:
		outcome.Status = models.StatusSuccess
		outcome.File = written.Path
		outcome.Digest = written.Digest
		outcome.Rows = written.Rows
	}

	return outcome
}

func (r *Runner) fetch(ctx context.Context, adapter adapters.Adapter, src config.SourceConfig) (result *models.FetchResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrAdapterPanic, p)
		}
	}()

	r.logger.Debug("fetching", "source", src.Name, "adapter", adapter.ID(), "url", src.URL)

	result, err = adapter.Fetch(ctx, adapters.Request{
		Params:     src.QueryParams(),
		Endpoint:   src.URL,
		Credential: src.Credential,
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = &models.FetchResult{Table: models.EmptyTable()}
	}

	return result, nil
}

func (r *Runner) logOutcome(o models.Outcome) {
	log := r.logger.With("source", o.Source, "adapter", o.Adapter)

	switch o.Status {
	case models.StatusSuccess:
		log.Info("data saved", "rows", o.Rows, "file", o.File, "duration", o.Duration)
	case models.StatusEmpty:
		log.Warn("no data returned", "duration", o.Duration)
	case models.StatusUnexpectedShape:
		log.Warn("unexpected response shape", "reason", o.Detail)
	case models.StatusFailed:
		log.Error("failed to process data source", "error", o.Err)
	}
}
