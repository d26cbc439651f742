package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apollonode/internal/apollo"
	"apollonode/internal/engine"
	"apollonode/internal/types"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// runOptions are the query string switches of POST /v1/{resource}/{operation}.
type runOptions struct {
	ContinueOnFail bool `schema:"continue_on_fail"`
	DryRun         bool `schema:"dry_run"`
}

// runRequest is the JSON body of POST /v1/{resource}/{operation}.
type runRequest struct {
	Parameters map[string]any   `json:"parameters"`
	Items      []map[string]any `json:"items"`
}

// OperationInfo describes one registered operation for GET /operations.
type OperationInfo struct {
	Resource    string           `json:"resource"`
	Operation   string           `json:"operation"`
	Description string           `json:"description"`
	Method      string           `json:"method"`
	Path        string           `json:"path"`
	Batch       bool             `json:"batch"`
	Fields      []types.FieldDef `json:"fields"`
}

// WebhookServer exposes the node's operations over HTTP.
type WebhookServer struct {
	engine   *engine.Engine
	gatherer prometheus.Gatherer
}

// NewWebhookServer creates a new webhook server. A nil gatherer disables /metrics.
func NewWebhookServer(eng *engine.Engine, gatherer prometheus.Gatherer) *WebhookServer {
	return &WebhookServer{engine: eng, gatherer: gatherer}
}

// Handler returns the routed HTTP handler.
func (s *WebhookServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/operations", s.handleListOperations)
	r.Post("/v1/{resource}/{operation}", s.handleRun)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *WebhookServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.engine.Logger.Info("http server listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *WebhookServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *WebhookServer) handleListOperations(w http.ResponseWriter, r *http.Request) {
	handlers := s.engine.Router.Handlers()
	infos := make([]OperationInfo, 0, len(handlers))
	for _, h := range handlers {
		infos = append(infos, OperationInfo{
			Resource:    string(h.Resource),
			Operation:   string(h.Operation),
			Description: h.Description,
			Method:      h.Method,
			Path:        h.Path,
			Batch:       h.Batch,
			Fields:      h.Fields,
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *WebhookServer) handleRun(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	operation := chi.URLParam(r, "operation")
	if _, err := s.engine.Router.Resolve(resource, operation); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var opts runOptions
	if err := queryDecoder.Decode(&opts, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid query: %w", err))
		return
	}

	var body runRequest
	if r.Body != nil {
		defer r.Body.Close()
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
	}

	job := &types.JobDef{
		Name:           resource + "." + operation,
		Resource:       resource,
		Operation:      operation,
		ContinueOnFail: opts.ContinueOnFail,
		Parameters:     body.Parameters,
		Items:          body.Items,
	}

	var (
		result *types.RunResult
		err    error
	)
	if opts.DryRun {
		result, err = s.engine.DryRun(job)
	} else {
		result, err = s.engine.Run(r.Context(), job)
	}
	if err != nil {
		status := http.StatusInternalServerError
		var ve *engine.ValidationError
		if opts.DryRun || errors.As(err, &ve) {
			status = http.StatusBadRequest
		}
		s.engine.Logger.Warn("http run rejected", "op", job.Name, "error", apollo.RedactSecrets(err.Error()))
		writeError(w, status, err)
		return
	}

	status := http.StatusOK
	if result.Status == types.StatusFailed {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": apollo.RedactSecrets(err.Error())})
}
