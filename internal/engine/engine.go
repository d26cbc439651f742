package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"apollonode/internal/apollo"
	"apollonode/internal/metrics"
	"apollonode/internal/types"
)

// Engine executes jobs: it validates them, resolves per-item parameters and
// hands the resulting Parameter Sets to the router.
type Engine struct {
	Router  *apollo.Router
	Client  apollo.Doer
	Logger  *slog.Logger
	Metrics *metrics.Collectors

	// Env is the environment visible to ${{ env.X }}. Defaults to the process environment.
	Env map[string]string

	now func() time.Time
}

// NewEngine creates an engine. client may be nil when only DryRun is used.
func NewEngine(router *apollo.Router, client apollo.Doer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		Router: router,
		Client: client,
		Logger: logger,
		Env:    Environ(),
		now:    time.Now,
	}
}

// Run executes job against the Apollo API.
//
// Validation problems are returned as a *ValidationError. Failures after
// validation produce a RunResult with status "failed" and a nil error.
func (e *Engine) Run(ctx context.Context, job *types.JobDef) (*types.RunResult, error) {
	if err := ValidateJob(job, e.Router); err != nil {
		return nil, err
	}
	if e.Client == nil {
		return nil, fmt.Errorf("engine has no Apollo client configured")
	}
	h, err := e.Router.Resolve(job.Resource, job.Operation)
	if err != nil {
		return nil, err
	}

	result := e.newResult(job)
	logger := e.Logger.With("run_id", result.RunID, "op", h.Key())
	logger.InfoContext(ctx, "run started", "job", job.Name, "items", result.Items, "continue_on_fail", job.ContinueOnFail)

	params, err := e.resolveItems(job)
	if err != nil {
		return e.fail(ctx, logger, result, err), nil
	}

	recs, err := h.Run(ctx, apollo.Execution{
		Items:          params,
		ContinueOnFail: job.ContinueOnFail,
		Client:         e.Client,
		Logger:         logger,
	})
	if err != nil {
		return e.fail(ctx, logger, result, err), nil
	}

	itemErrors := 0
	result.Records = make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		if isErrorRecord(r) {
			itemErrors++
		}
		result.Records = append(result.Records, r)
	}
	if itemErrors > 0 {
		result.Status = types.StatusPartial
	}
	e.finish(result)
	e.Metrics.ObserveExecution(result.Resource, result.Operation, result.Status, len(recs)-itemErrors, itemErrors, e.elapsed(result))

	logger.InfoContext(ctx, "run finished",
		"status", result.Status,
		"records", len(result.Records),
		"item_errors", itemErrors,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// DryRun validates job and returns the requests it would send, without calling Apollo.
func (e *Engine) DryRun(job *types.JobDef) (*types.RunResult, error) {
	if err := ValidateJob(job, e.Router); err != nil {
		return nil, err
	}
	h, err := e.Router.Resolve(job.Resource, job.Operation)
	if err != nil {
		return nil, err
	}

	result := e.newResult(job)
	result.Status = types.StatusDryRun

	params, err := e.resolveItems(job)
	if err != nil {
		return nil, err
	}
	planned, err := h.Plan(apollo.Execution{Items: params, ContinueOnFail: job.ContinueOnFail})
	if err != nil {
		return nil, err
	}
	result.Planned = planned
	result.Records = []map[string]any{}
	e.finish(result)
	return result, nil
}

// resolveItems returns the Parameter Set for each input item of job. A job
// without items runs once with an empty item.
func (e *Engine) resolveItems(job *types.JobDef) ([]apollo.Params, error) {
	items := job.Items
	if len(items) == 0 {
		items = []map[string]any{{}}
	}
	out := make([]apollo.Params, 0, len(items))
	for i, item := range items {
		resolved, err := NewItemContext(job.Name, i, item, e.Env).ResolveMap(job.Parameters)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, apollo.Params(resolved))
	}
	return out, nil
}

func (e *Engine) newResult(job *types.JobDef) *types.RunResult {
	items := len(job.Items)
	if items == 0 {
		items = 1
	}
	return &types.RunResult{
		RunID:     uuid.NewString(),
		Job:       job.Name,
		Resource:  job.Resource,
		Operation: job.Operation,
		Status:    types.StatusSuccess,
		StartedAt: e.clock().UTC(),
		Items:     items,
	}
}

func (e *Engine) fail(ctx context.Context, logger *slog.Logger, result *types.RunResult, err error) *types.RunResult {
	result.Status = types.StatusFailed
	result.Error = apollo.RedactSecrets(err.Error())
	result.Records = []map[string]any{}
	e.finish(result)
	e.Metrics.ObserveExecution(result.Resource, result.Operation, result.Status, 0, 0, e.elapsed(result))
	logger.ErrorContext(ctx, "run failed", "error", result.Error, "duration_ms", result.DurationMs)
	return result
}

func (e *Engine) finish(result *types.RunResult) {
	result.CompletedAt = e.clock().UTC()
	result.DurationMs = e.elapsed(result).Milliseconds()
}

func (e *Engine) elapsed(result *types.RunResult) time.Duration {
	return result.CompletedAt.Sub(result.StartedAt)
}

func (e *Engine) clock() time.Time {
	if e.now == nil {
		return time.Now()
	}
	return e.now()
}

// isErrorRecord reports whether r is the {error: message} record of a failed item.
func isErrorRecord(r apollo.Record) bool {
	if len(r) != 1 {
		return false
	}
	_, ok := r["error"].(string)
	return ok
}
