package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"apollonode/internal/apollo"
	"apollonode/internal/types"
)

// ValidationError collects multiple validation issues.
type ValidationError struct {
	Errors []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(ve.Errors, "\n  - "))
}

func (ve *ValidationError) Add(msg string) {
	ve.Errors = append(ve.Errors, msg)
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ValidateJob checks a job against the router: the operation must exist,
// every parameter must be declared, literal values must fit their field type
// and templates may only use known roots and pipes.
//
// Required fields are not checked here since their values usually come from
// item templates; the handlers report them per item.
func ValidateJob(job *types.JobDef, router *apollo.Router) error {
	ve := &ValidationError{}

	if job.Resource == "" {
		ve.Add("job 'resource' is required")
	}
	if job.Operation == "" {
		ve.Add("job 'operation' is required")
	}
	if ve.HasErrors() {
		return ve
	}

	h, err := router.Resolve(job.Resource, job.Operation)
	if err != nil {
		ve.Add(err.Error())
		return ve
	}

	names := make([]string, 0, len(job.Parameters))
	for name := range job.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field, ok := h.FieldByName(name)
		if !ok {
			ve.Add(fmt.Sprintf("parameter %q is not a field of %s", name, h.Key()))
			continue
		}
		value := job.Parameters[name]
		checkTemplates(value, name, ve)
		if containsTemplate(value) {
			continue
		}
		if msg := checkFieldValue(field, value); msg != "" {
			ve.Add(fmt.Sprintf("parameter %q: %s", name, msg))
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func containsTemplate(v any) bool {
	switch val := v.(type) {
	case string:
		return exprRegex.MatchString(val)
	case []any:
		for _, el := range val {
			if containsTemplate(el) {
				return true
			}
		}
	case map[string]any:
		for _, el := range val {
			if containsTemplate(el) {
				return true
			}
		}
	}
	return false
}

// checkFieldValue reports why a literal value cannot serve the field, or "".
func checkFieldValue(f types.FieldDef, v any) string {
	if v == nil {
		return ""
	}
	switch f.Type {
	case types.FieldString, types.FieldDateTime:
		if _, err := apollo.TextValue(f, v); err != nil {
			return err.Error()
		}
	case types.FieldNumber:
		switch n := v.(type) {
		case int, int64, float64, json.Number:
			return ""
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil || strings.TrimSpace(n) == "" {
				return ""
			}
		}
		return fmt.Sprintf("expected a number, got %v", v)
	case types.FieldBoolean:
		switch b := v.(type) {
		case bool:
			return ""
		case string:
			if _, err := strconv.ParseBool(b); err == nil {
				return ""
			}
		}
		return fmt.Sprintf("expected a boolean, got %v", v)
	case types.FieldMultiOptions:
		var values []string
		switch opts := v.(type) {
		case string:
			values = apollo.SplitAndTrim(opts)
		case []any:
			for _, o := range opts {
				values = append(values, fmt.Sprint(o))
			}
		case []string:
			values = opts
		default:
			return fmt.Sprintf("expected a list of options, got %v", v)
		}
		for _, val := range values {
			if !slices.Contains(f.Options, val) {
				return fmt.Sprintf("unknown option %q (want one of %s)", val, strings.Join(f.Options, ", "))
			}
		}
	case types.FieldJSON:
		if s, ok := v.(string); ok && !json.Valid([]byte(s)) {
			return "invalid JSON"
		}
	}
	return ""
}

func checkTemplates(v any, param string, ve *ValidationError) {
	switch val := v.(type) {
	case string:
		for _, match := range exprRegex.FindAllStringSubmatch(val, -1) {
			path, pipe, hasPipe := strings.Cut(match[1], "|")
			root, _, _ := strings.Cut(strings.TrimSpace(path), ".")
			switch root {
			case rootItem, rootIndex, rootEnv, rootJob:
			default:
				ve.Add(fmt.Sprintf("parameter %q: unknown variable root %q", param, root))
			}
			if hasPipe {
				if _, ok := pipes[strings.TrimSpace(pipe)]; !ok {
					ve.Add(fmt.Sprintf("parameter %q: unknown pipe function %q", param, strings.TrimSpace(pipe)))
				}
			}
		}
	case []any:
		for _, el := range val {
			checkTemplates(el, param, ve)
		}
	case map[string]any:
		for _, el := range val {
			checkTemplates(el, param, ve)
		}
	}
}
