package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"apollonode/internal/apollo"
	"apollonode/internal/engine"
	"apollonode/internal/metrics"
	"apollonode/internal/types"
)

type fakeApollo struct {
	calls []apollo.Request
}

func (f *fakeApollo) Do(_ context.Context, req apollo.Request) (map[string]any, error) {
	f.calls = append(f.calls, req)
	switch req.Path {
	case "/people/match":
		return map[string]any{"person": map[string]any{"email": req.Body["email"]}}, nil
	case "/contacts/search":
		return map[string]any{"contacts": []any{map[string]any{"id": "c1"}, map[string]any{"id": "c2"}}}, nil
	}
	return map[string]any{}, nil
}

func testSetup() (*WebhookServer, *fakeApollo) {
	fake := &fakeApollo{}
	reg := prometheus.NewRegistry()
	eng := engine.NewEngine(apollo.NewRouter(), fake, nil)
	eng.Metrics = metrics.New(reg)
	return NewWebhookServer(eng, reg), fake
}

func do(t *testing.T, srv *WebhookServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testSetup()
	w := do(t, srv, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body status = %q, want ok", body["status"])
	}
}

func TestListOperations(t *testing.T) {
	srv, _ := testSetup()
	w := do(t, srv, http.MethodGet, "/operations", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var ops []OperationInfo
	if err := json.NewDecoder(w.Body).Decode(&ops); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(ops) != 11 {
		t.Fatalf("expected 11 operations, got %d", len(ops))
	}
	if ops[0].Resource != "contact" || ops[0].Operation != "create" {
		t.Errorf("first operation = %s.%s", ops[0].Resource, ops[0].Operation)
	}
}

func TestRunPerItemOperation(t *testing.T) {
	srv, fake := testSetup()
	body := `{
		"parameters": {"personEmail": "${{ item.email }}"},
		"items": [{"email": "ada@example.com"}, {"email": ""}, {"email": "grace@example.com"}]
	}`
	w := do(t, srv, http.MethodPost, "/v1/person/enrich?continue_on_fail=true", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result types.RunResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if result.Status != types.StatusPartial {
		t.Errorf("status = %q, want partial", result.Status)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %v", result.Records)
	}
	if _, ok := result.Records[1]["error"]; !ok {
		t.Errorf("record 2 = %v, want error record", result.Records[1])
	}
	if len(fake.calls) != 2 {
		t.Errorf("expected 2 Apollo calls, got %d", len(fake.calls))
	}
}

func TestRunBatchOperation(t *testing.T) {
	srv, fake := testSetup()
	w := do(t, srv, http.MethodPost, "/v1/contact/search", `{"parameters": {"qKeywords": "cto", "perPage": 50}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result types.RunResult
	json.NewDecoder(w.Body).Decode(&result)
	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %v", result.Records)
	}
	if len(fake.calls) != 1 || fake.calls[0].Body["per_page"] != 50 {
		t.Errorf("calls = %v", fake.calls)
	}
}

func TestRunFailedIs500(t *testing.T) {
	srv, _ := testSetup()
	w := do(t, srv, http.MethodPost, "/v1/person/enrich", `{"items": [{}]}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var result types.RunResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.Status != types.StatusFailed || !strings.Contains(result.Error, "Missing required identifier fields") {
		t.Errorf("result = %+v", result)
	}
}

func TestRunDryRun(t *testing.T) {
	srv, fake := testSetup()
	w := do(t, srv, http.MethodPost, "/v1/organization/enrich?dry_run=true", `{"parameters": {"organizationDomain": "apollo.io"}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result types.RunResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.Status != types.StatusDryRun || len(result.Planned) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Planned[0].Method != http.MethodGet || result.Planned[0].Query["domain"] != "apollo.io" {
		t.Errorf("planned = %+v", result.Planned[0])
	}
	if len(fake.calls) != 0 {
		t.Errorf("dry run issued %d calls", len(fake.calls))
	}
}

func TestRunUnsupportedOperation(t *testing.T) {
	srv, _ := testSetup()
	w := do(t, srv, http.MethodPost, "/v1/sequence/delete", `{}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != `The operation "delete" for resource "sequence" is not supported` {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRunInvalidRequests(t *testing.T) {
	srv, _ := testSetup()

	w := do(t, srv, http.MethodPost, "/v1/person/enrich", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: status = %d, want 400", w.Code)
	}

	w = do(t, srv, http.MethodPost, "/v1/person/enrich", `{"parameters": {"nickname": "ada"}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown parameter: status = %d, want 400", w.Code)
	}

	w = do(t, srv, http.MethodPost, "/v1/person/enrich?continue_on_fail=maybe", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad query: status = %d, want 400", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testSetup()
	do(t, srv, http.MethodPost, "/v1/contact/search", `{}`)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `apollonode_executions_total{operation="search",resource="contact",status="success"} 1`) {
		t.Errorf("metrics output missing execution counter:\n%s", w.Body.String())
	}
}
