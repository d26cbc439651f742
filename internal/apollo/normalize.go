package apollo

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const maxBulkItems = 10

// SplitAndTrim splits a semicolon-delimited string into trimmed, non-empty parts.
func SplitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ContactIDsSource records which parse path produced a ContactIDs value.
type ContactIDsSource int

const (
	ContactIDsJSON ContactIDsSource = iota
	ContactIDsDelimited
)

func (s ContactIDsSource) String() string {
	switch s {
	case ContactIDsJSON:
		return "json"
	case ContactIDsDelimited:
		return "delimited"
	default:
		return "unknown"
	}
}

// ContactIDs is the result of ParseContactIDs.
type ContactIDs struct {
	IDs    []string
	Source ContactIDsSource
}

// ParseContactIDs reads a list of contact IDs given either as a JSON array or
// as a comma-separated string. The JSON form is tried first; anything that is
// not a JSON array falls through to the comma split.
func ParseContactIDs(raw string) ContactIDs {
	if ids, ok := parseJSONIDs(raw); ok {
		return ContactIDs{IDs: ids, Source: ContactIDsJSON}
	}
	return ContactIDs{IDs: splitCommaList(raw), Source: ContactIDsDelimited}
}

func parseJSONIDs(raw string) ([]string, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var arr []any
	if err := dec.Decode(&arr); err != nil || arr == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		id := strings.TrimSpace(stringifyID(el))
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	return out, true
}

func stringifyID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// RangeBound is a value that can bound a Range: numbers or date strings.
type RangeBound interface {
	~int | ~int64 | ~float64 | ~string
}

// Range merges independent min/max fields into a {min, max} object.
//
// Zero bounds are left out; nil means neither bound was set and the caller
// must not add the range key at all.
func Range[T RangeBound](min, max T) map[string]any {
	var zero T
	if min == zero && max == zero {
		return nil
	}
	out := make(map[string]any, 2)
	if min != zero {
		out["min"] = min
	}
	if max != zero {
		out["max"] = max
	}
	return out
}

// ParseBulkPeople parses the people bulk-enrich payload: a JSON array of 1 to 10 match details.
func ParseBulkPeople(raw string) ([]any, error) {
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, ErrInvalidPeopleJSON
	}
	arr, ok := v.([]any)
	if !ok || len(arr) < 1 || len(arr) > maxBulkItems {
		return nil, ErrPeopleCardinality
	}
	return arr, nil
}

// ParseBulkDomains parses the organization bulk-enrich payload: a JSON array of 1 to 10 domain strings.
func ParseBulkDomains(raw string) ([]string, error) {
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, ErrInvalidDomainsJSON
	}
	arr, ok := v.([]any)
	if !ok || len(arr) < 1 || len(arr) > maxBulkItems {
		return nil, ErrDomainsCardinality
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, ErrDomainsNotAllStrings
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeJSON(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
