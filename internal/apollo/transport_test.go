package apollo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/api/v1", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestClientPostsJSON(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/emailer_campaigns/search", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("per_page"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"emailer_campaigns":[{"id":"s1","num_steps":3}]}`)
	})

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/emailer_campaigns/search",
		Body:   map[string]any{"q_campaign_name": "Q3"},
		Query:  map[string]any{"page": 2, "per_page": 25},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q_campaign_name": "Q3"}, gotBody)

	campaigns := resp["emailer_campaigns"].([]any)
	first := campaigns[0].(map[string]any)
	assert.Equal(t, json.Number("3"), first["num_steps"])
}

func TestClientGetHasNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "apollo.io", r.URL.Query().Get("domain"))
		b, _ := io.ReadAll(r.Body)
		assert.Empty(t, b)
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"organization":{"name":"Apollo"}}`)
	})

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/organizations/enrich",
		Body:   map[string]any{"ignored": true},
		Query:  map[string]any{"domain": "apollo.io"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Apollo", resp["organization"].(map[string]any)["name"])
}

func TestClientHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid access credentials. api_key=test-key","error_code":"INVALID_API_KEY"}`)
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/people/match"})
	require.Error(t, err)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	assert.Equal(t, "INVALID_API_KEY", he.ErrorCode)
	assert.NotContains(t, err.Error(), "test-key")
	assert.Contains(t, err.Error(), "POST /people/match")
}

func TestClientHTTPErrorSnippet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>upstream\nfailure</html>")
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/organizations/enrich"})
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "<html>upstream failure</html>", he.Snippet)
}

func TestClientHTTPErrorSnippetMultiByte(t *testing.T) {
	body := "a" + strings.Repeat("é", 200)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, body)
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/organizations/enrich"})
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.True(t, utf8.ValidString(he.Snippet), "snippet %q", he.Snippet)
	assert.True(t, strings.HasSuffix(he.Snippet, "é..."))
	assert.Equal(t, "a"+strings.Repeat("é", 127)+"...", he.Snippet)
}

func TestClientMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"person":`)
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/people/match"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding POST /people/match response")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{APIKey: "k", BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewClient(ClientConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL.String())
}

func TestVerifyCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/organizations/enrich", r.URL.Path)
		assert.Equal(t, "apollo.io", r.URL.Query().Get("domain"))
		_, _ = io.WriteString(w, `{"organization":{}}`)
	})
	assert.NoError(t, VerifyCredentials(context.Background(), c))

	bad := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := VerifyCredentials(context.Background(), bad)
	var he *HTTPError
	assert.True(t, errors.As(err, &he))
}

func TestListSequenceOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(100), body["per_page"])
		_, _ = io.WriteString(w, `{"emailer_campaigns":[{"id":"s1","name":"Welcome"},{"id":"s2"},{"name":"no id"}]}`)
	})

	opts, err := ListSequenceOptions(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []Option{{Name: "Welcome", Value: "s1"}, {Name: "s2", Value: "s2"}}, opts)
}
