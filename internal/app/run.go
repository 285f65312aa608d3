package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/scenario"
	"golang.org/x/sync/errgroup"
)

// ErrScenariosFailed is returned by Run when at least one scenario failed.
var ErrScenariosFailed = errors.New("one or more scenarios failed")

// Run plans and runs every scenario, writes the report and returns it. A
// failed scenario does not stop the others; Run then returns the report
// together with ErrScenariosFailed.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "paths", a.config.Paths, "workers", a.config.WorkerCount)

	jobs, err := a.plan(ctx)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		a.logger.Warn("No scenarios found, nothing to run.")
	}

	report := &Report{Outcomes: make([]Outcome, len(jobs))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, j := range jobs {
		g.Go(func() error {
			report.Outcomes[i] = a.runJob(gctx, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := report.Write(a.outW); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Debug("App.Run method finished.", "failed", report.Failed())
	if report.Failed() > 0 {
		return report, ErrScenariosFailed
	}
	return report, nil
}

// runJob runs one scenario in a fresh session with fresh handlers.
func (a *App) runJob(ctx context.Context, j job) Outcome {
	out := Outcome{
		RunID:    uuid.NewString(),
		Name:     j.Name,
		Resource: j.Resource,
		Flow:     j.Invocation.Flow,
	}
	logger := ctxlog.FromContext(ctx).With("run_id", out.RunID, "scenario", j.Name, "resource", j.Resource)
	ctx = ctxlog.WithLogger(ctx, logger)

	start := time.Now()
	session := scenario.NewSession(scenario.WithLoader(a.loader), scenario.WithHandlers(a.handlers))
	session.SetConfigResource(j.Resource)
	err := session.Run(ctx, j.Invocation)
	if closeErr := session.Close(ctx); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to release modules: %w", closeErr)
	}
	out.Duration = time.Since(start)

	if res := session.LastResult(); res != nil {
		out.Count = res.Count
	}
	out.Err = err
	out.Passed = err == nil
	if out.Passed {
		logger.Info("Scenario passed.", "count", out.Count, "duration", out.Duration)
	} else {
		logger.Info("Scenario failed.", "error", err, "duration", out.Duration)
	}
	return out
}
