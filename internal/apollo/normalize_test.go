package apollo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"CEO", []string{"CEO"}},
		{" CEO ; CTO;;  VP Sales ;", []string{"CEO", "CTO", "VP Sales"}},
		{";;;", []string{}},
	}
	for _, tt := range tests {
		got := SplitAndTrim(tt.in)
		assert.Len(t, got, len(tt.want), "SplitAndTrim(%q)", tt.in)
		for i := range tt.want {
			assert.Equal(t, tt.want[i], got[i])
		}
		for _, el := range got {
			assert.NotEmpty(t, el)
			assert.Equal(t, strings.TrimSpace(el), el)
		}
	}
}

func TestParseContactIDs(t *testing.T) {
	tests := []struct {
		in     string
		want   []string
		source ContactIDsSource
	}{
		{`["5f1","6a2"]`, []string{"5f1", "6a2"}, ContactIDsJSON},
		{"5f1, 6a2 ,", []string{"5f1", "6a2"}, ContactIDsDelimited},
		{"not json, but, csv", []string{"not json", "but", "csv"}, ContactIDsDelimited},
		{`[42, " 7a ", ""]`, []string{"42", "7a"}, ContactIDsJSON},
		{`{"id":"5f1"}`, []string{`{"id":"5f1"}`}, ContactIDsDelimited},
		{`["5f1"`, []string{`["5f1"`}, ContactIDsDelimited},
		{"", []string{}, ContactIDsDelimited},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseContactIDs(tt.in)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.want, got.IDs)
		})
	}
}

func TestRange(t *testing.T) {
	assert.Nil(t, Range(0, 0))
	assert.Nil(t, Range("", ""))

	r := Range(1000.0, 0)
	assert.Equal(t, map[string]any{"min": 1000.0}, r)
	_, hasMax := r["max"]
	assert.False(t, hasMax)

	assert.Equal(t, map[string]any{"max": 50}, Range(0, 50))
	assert.Equal(t, map[string]any{"min": "2024-01-01", "max": "2024-06-30"}, Range("2024-01-01", "2024-06-30"))
}

func TestSetRangeOmitsEmpty(t *testing.T) {
	body := map[string]any{}
	setRange(body, "revenue_range", 0.0, 0.0)
	assert.NotContains(t, body, "revenue_range")

	setRange(body, "revenue_range", 5.0, 0.0)
	assert.Equal(t, map[string]any{"min": 5.0}, body["revenue_range"])
}

func jsonArray(n int, el func(i int) any) string {
	arr := make([]any, n)
	for i := range arr {
		arr[i] = el(i)
	}
	b, _ := json.Marshal(arr)
	return string(b)
}

func TestParseBulkPeople(t *testing.T) {
	person := func(i int) any { return map[string]any{"email": fmt.Sprintf("p%d@example.com", i)} }

	for _, n := range []int{1, 10} {
		got, err := ParseBulkPeople(jsonArray(n, person))
		require.NoError(t, err, "length %d", n)
		assert.Len(t, got, n)
	}
	for _, n := range []int{0, 11} {
		_, err := ParseBulkPeople(jsonArray(n, person))
		assert.ErrorIs(t, err, ErrPeopleCardinality, "length %d", n)
	}

	_, err := ParseBulkPeople(`{"email":"a@b.c"}`)
	assert.ErrorIs(t, err, ErrPeopleCardinality)

	_, err = ParseBulkPeople(`[{"email":`)
	assert.ErrorIs(t, err, ErrInvalidPeopleJSON)
	assert.EqualError(t, err, "Invalid JSON for people details")

	_, err = ParseBulkPeople(`[] []`)
	assert.ErrorIs(t, err, ErrInvalidPeopleJSON)
}

func TestParseBulkDomains(t *testing.T) {
	domain := func(i int) any { return fmt.Sprintf("d%d.com", i) }

	for _, n := range []int{1, 10} {
		got, err := ParseBulkDomains(jsonArray(n, domain))
		require.NoError(t, err, "length %d", n)
		assert.Len(t, got, n)
		assert.Equal(t, "d0.com", got[0])
	}
	for _, n := range []int{0, 11} {
		_, err := ParseBulkDomains(jsonArray(n, domain))
		assert.ErrorIs(t, err, ErrDomainsCardinality, "length %d", n)
	}

	_, err := ParseBulkDomains(`["a.com", 7]`)
	assert.True(t, errors.Is(err, ErrDomainsNotAllStrings))
	assert.EqualError(t, err, "Organization domains array must contain only strings")

	_, err = ParseBulkDomains(`not json`)
	assert.ErrorIs(t, err, ErrInvalidDomainsJSON)

	_, err = ParseBulkDomains(`"a.com"`)
	assert.ErrorIs(t, err, ErrDomainsCardinality)
}

func TestRedactSecrets(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"X-Api-Key: abc123 rejected", "<redacted_kv> rejected"},
		{`{"api_key": "abc123"}`, `{"<redacted_kv>"}`},
		{"apollo_api_key=abc123", "<redacted_kv>"},
		{"nothing to hide", "nothing to hide"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactSecrets(tt.in), tt.in)
		assert.NotContains(t, RedactSecrets(tt.in), "abc123")
	}
}
