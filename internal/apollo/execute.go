package apollo

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"apollonode/internal/types"
)

// Execution is one node invocation: the input items and the host's failure policy.
type Execution struct {
	Items []Params

	// ContinueOnFail turns per-item failures into {error: message} records.
	ContinueOnFail bool

	Client Doer
	Logger *slog.Logger
}

func (ex Execution) logger() *slog.Logger {
	if ex.Logger != nil {
		return ex.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Handler builds, sends and reshapes the requests of one (resource, operation) pair.
type Handler struct {
	Resource    Resource
	Operation   Operation
	Description string
	Method      string
	Path        string
	Fields      []types.FieldDef

	// Batch handlers read their parameters once, from the first item, and issue a single call.
	Batch bool

	build func(p Params, index int) (Request, error)
	emit  func(resp map[string]any) []Record
}

// Key returns the "resource.operation" identifier of h.
func (h *Handler) Key() string {
	return string(h.Resource) + "." + string(h.Operation)
}

// Build returns the Request Fragment for one Parameter Set without sending it.
func (h *Handler) Build(p Params, index int) (Request, error) {
	return h.build(p, index)
}

// Run executes the handler against every item of ex.
func (h *Handler) Run(ctx context.Context, ex Execution) ([]Record, error) {
	if ex.Client == nil {
		return nil, errors.New("apollo: execution has no client")
	}
	if h.Batch {
		return h.runBatch(ctx, ex)
	}
	return h.runPerItem(ctx, ex)
}

func (h *Handler) runBatch(ctx context.Context, ex Execution) ([]Record, error) {
	req, err := h.build(firstItem(ex.Items), 0)
	if err != nil {
		return nil, err
	}
	ex.logger().DebugContext(ctx, "apollo batch request", "op", h.Key(), "method", req.Method, "path", req.Path)
	resp, err := ex.Client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.emit(resp), nil
}

func (h *Handler) runPerItem(ctx context.Context, ex Execution) ([]Record, error) {
	logger := ex.logger()
	out := make([]Record, 0, len(ex.Items))
	for i, item := range ex.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := h.runItem(ctx, ex.Client, item, i)
		if err != nil {
			if !ex.ContinueOnFail {
				return nil, err
			}
			logger.WarnContext(ctx, "apollo item failed", "op", h.Key(), "item", i, "error", RedactSecrets(err.Error()))
			out = append(out, Record{"error": RedactSecrets(err.Error())})
			continue
		}
		logger.DebugContext(ctx, "apollo item done", "op", h.Key(), "item", i, "records", len(recs))
		out = append(out, recs...)
	}
	return out, nil
}

func (h *Handler) runItem(ctx context.Context, client Doer, p Params, index int) ([]Record, error) {
	req, err := h.build(p, index)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.emit(resp), nil
}

// Plan builds the Request Fragments ex would send, without sending them.
//
// Failures follow the same policy as Run: with ContinueOnFail they are
// recorded on the planned entry, otherwise the first one is returned.
func (h *Handler) Plan(ex Execution) ([]types.PlannedRequest, error) {
	if h.Batch {
		req, err := h.build(firstItem(ex.Items), 0)
		if err != nil {
			return nil, err
		}
		return []types.PlannedRequest{planned(0, req)}, nil
	}

	out := make([]types.PlannedRequest, 0, len(ex.Items))
	for i, item := range ex.Items {
		req, err := h.build(item, i)
		if err != nil {
			if !ex.ContinueOnFail {
				return nil, err
			}
			out = append(out, types.PlannedRequest{Item: i, Error: RedactSecrets(err.Error())})
			continue
		}
		out = append(out, planned(i, req))
	}
	return out, nil
}

func planned(i int, req Request) types.PlannedRequest {
	return types.PlannedRequest{
		Item:   i,
		Method: req.Method,
		Path:   req.Path,
		Body:   req.Body,
		Query:  req.Query,
	}
}

func firstItem(items []Params) Params {
	if len(items) == 0 {
		return Params{}
	}
	return items[0]
}

// emitObject returns the object under key as a single record.
func emitObject(key string) func(map[string]any) []Record {
	return func(resp map[string]any) []Record {
		obj, _ := resp[key].(map[string]any)
		if obj == nil {
			return []Record{{}}
		}
		return []Record{Record(obj)}
	}
}

// emitList returns one record per element of the array under key.
func emitList(key string) func(map[string]any) []Record {
	return func(resp map[string]any) []Record {
		arr, _ := resp[key].([]any)
		out := make([]Record, 0, len(arr))
		for _, el := range arr {
			if obj, ok := el.(map[string]any); ok {
				out = append(out, Record(obj))
				continue
			}
			out = append(out, Record{"value": el})
		}
		return out
	}
}

// emitRaw returns the response itself as a single record.
func emitRaw(resp map[string]any) []Record {
	if resp == nil {
		return []Record{{}}
	}
	return []Record{Record(resp)}
}
