package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gsarma/codepad/internal/code"
)

// DefaultConcurrency is used when a Pool is built with a non-positive size.
const DefaultConcurrency = 4

// Job is one program to execute.
type Job struct {
	SourceCode string
	LanguageID int
	Stdin      string
}

// Pool executes batches of jobs against a provider with bounded concurrency.
type Pool struct {
	provider    code.Provider
	concurrency int
	logger      *slog.Logger
}

func New(provider code.Provider, concurrency int, logger *slog.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		provider:    provider,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Concurrency reports the maximum number of jobs in flight.
func (p *Pool) Concurrency() int { return p.concurrency }

// Run executes every job and returns the results in job order. Jobs are
// independent: one failing never cancels the others. Execute is total, so
// each slot always holds a result.
func (p *Pool) Run(ctx context.Context, jobs []Job) []code.ExecutionResult {
	results := make([]code.ExecutionResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = p.provider.Execute(ctx, j.SourceCode, j.LanguageID, j.Stdin)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	p.logger.Debug("worker: batch finished",
		"jobs", len(jobs), "failed", failed, "elapsed", time.Since(start))
	return results
}
