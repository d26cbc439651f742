package apollo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// VerifyCredentials checks the API key by enriching a known domain.
func VerifyCredentials(ctx context.Context, client Doer) error {
	_, err := client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/organizations/enrich",
		Query:  map[string]any{"domain": "apollo.io"},
	})
	if err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}
	return nil
}

// Option is a selectable value for a field, such as a sequence ID.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ListSequenceOptions returns the account's sequences as name/value options.
func ListSequenceOptions(ctx context.Context, client Doer) ([]Option, error) {
	resp, err := client.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/emailer_campaigns/search",
		Body:   map[string]any{"per_page": 100},
	})
	if err != nil {
		return nil, fmt.Errorf("listing sequences: %w", err)
	}
	recs := emitList("emailer_campaigns")(resp)
	out := make([]Option, 0, len(recs))
	for _, rec := range recs {
		id := strings.TrimSpace(stringifyID(rec["id"]))
		if id == "" {
			continue
		}
		name, _ := rec["name"].(string)
		if name == "" {
			name = id
		}
		out = append(out, Option{Name: name, Value: id})
	}
	return out, nil
}
