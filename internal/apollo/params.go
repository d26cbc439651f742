package apollo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"apollonode/internal/types"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("param"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// normalizeParams returns a copy of p where every declared field that is unset
// or blank takes its default, json fields given as structured values become
// JSON text, and lists given for delimited text fields are joined.
func normalizeParams(fields []types.FieldDef, p Params) (Params, error) {
	out := make(Params, len(p)+len(fields))
	for k, v := range p {
		if v != nil {
			out[k] = v
		}
	}
	for _, f := range fields {
		v, ok := out[f.Name]
		if !ok || isBlank(v) {
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}
		switch f.Type {
		case types.FieldJSON:
			text, err := jsonText(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			out[f.Name] = text
		case types.FieldString, types.FieldDateTime:
			text, err := TextValue(f, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			out[f.Name] = text
		}
	}
	return out, nil
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// TextValue checks that v can fill the text field f. Scalars pass through
// unchanged. Lists are accepted only by fields with a Delimiter and are joined
// with it.
func TextValue(f types.FieldDef, v any) (any, error) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		items = make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
	case map[string]any:
		return nil, errors.New("expected text, got an object")
	default:
		return v, nil
	}
	if f.Delimiter == "" {
		return nil, errors.New("expected text, got a list")
	}
	parts := make([]string, 0, len(items))
	for _, el := range items {
		switch el.(type) {
		case string, json.Number, int, int64, float64, bool:
			parts = append(parts, fmt.Sprint(el))
		default:
			return nil, fmt.Errorf("list entries must be text, got %v", el)
		}
	}
	return strings.Join(parts, f.Delimiter), nil
}

// jsonText lets json fields be given as structured values instead of JSON text.
func jsonText(v any) (any, error) {
	switch v.(type) {
	case []any, map[string]any, []map[string]any, []string:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

// decodeParams fills out (a pointer to a struct with `param` tags) from a Parameter Set.
func decodeParams(fields []types.FieldDef, p Params, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "param",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeToStringHook,
			stringToListHook,
		),
	})
	if err != nil {
		return err
	}
	in, err := normalizeParams(fields, p)
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

// timeToStringHook renders dates parsed by YAML back into the text form a dateTime field carries.
func timeToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	t, ok := data.(time.Time)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly), nil
	}
	return t.Format(time.RFC3339), nil
}

// stringToListHook accepts a semicolon-delimited string for multi-option fields.
func stringToListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	return SplitAndTrim(s), nil
}

func validationError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msgs = append(msgs, ve.Field()+": "+formatValidationError(ve))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// setString adds key to m when v is non-blank.
func setString(m map[string]any, key, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	m[key] = v
}

// setList adds key to m when the semicolon-delimited v has at least one entry.
func setList(m map[string]any, key, v string) {
	if parts := SplitAndTrim(v); len(parts) > 0 {
		m[key] = parts
	}
}

// setStrings adds key to m when vs has at least one non-blank entry.
func setStrings(m map[string]any, key string, vs []string) {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		m[key] = out
	}
}

// setRange adds key to m when at least one bound is set.
func setRange[T RangeBound](m map[string]any, key string, min, max T) {
	if r := Range(min, max); r != nil {
		m[key] = r
	}
}

// pathSegment escapes id for use as a single URL path segment. Dot segments
// are rejected since URL cleaning would resolve them against the parent path.
func pathSegment(id string) (string, bool) {
	if id == "." || id == ".." {
		return "", false
	}
	return url.PathEscape(id), true
}
