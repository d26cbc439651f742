package engine

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
)

var exprRegex = regexp.MustCompile(`\$\{\{\s*(.+?)\s*\}\}`)

// Expression roots available to job parameters.
const (
	rootItem  = "item"
	rootIndex = "index"
	rootEnv   = "env"
	rootJob   = "job"
)

var pipes = map[string]func(string) string{
	"slugify": slugify,
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"trim":    strings.TrimSpace,
}

// ItemContext is the state visible to parameter templates while one input item is resolved.
type ItemContext struct {
	Item  map[string]any
	Index int
	Job   string
	Env   map[string]string
}

// NewItemContext creates an ItemContext for item number index of job.
func NewItemContext(job string, index int, item map[string]any, env map[string]string) *ItemContext {
	if item == nil {
		item = map[string]any{}
	}
	return &ItemContext{Item: item, Index: index, Job: job, Env: env}
}

// Environ snapshots the process environment for template resolution.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}
	return env
}

// ResolveMap recursively resolves all expressions in a map.
func (ic *ItemContext) ResolveMap(m map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(m))
	for k, v := range m {
		resolved, err := ic.resolveValue(v)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", k, err)
		}
		result[k] = resolved
	}
	return result, nil
}

func (ic *ItemContext) resolveValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return ic.resolveString(val)
	case map[string]any:
		return ic.ResolveMap(val)
	case []any:
		resolved := make([]any, len(val))
		for i, item := range val {
			r, err := ic.resolveValue(item)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return resolved, nil
	default:
		return v, nil
	}
}

// resolveString replaces every ${{ ... }} in s. A string that is exactly one
// expression keeps the referenced value's type.
func (ic *ItemContext) resolveString(s string) (any, error) {
	if match := exprRegex.FindStringSubmatch(s); match != nil && match[0] == s {
		return ic.evaluateExpr(match[1])
	}

	var evalErr error
	result := exprRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := exprRegex.FindStringSubmatch(match)
		val, err := ic.evaluateExpr(sub[1])
		if err != nil {
			evalErr = err
			return match
		}
		if val == nil {
			return ""
		}
		return fmt.Sprintf("%v", val)
	})
	return result, evalErr
}

// evaluateExpr evaluates a single expression like "item.email | lower".
func (ic *ItemContext) evaluateExpr(expr string) (any, error) {
	path, pipe, hasPipe := strings.Cut(expr, "|")

	val, err := ic.resolvePath(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	if !hasPipe {
		return val, nil
	}
	name := strings.TrimSpace(pipe)
	fn, ok := pipes[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipe function %q", name)
	}
	if val == nil {
		return fn(""), nil
	}
	return fn(fmt.Sprintf("%v", val)), nil
}

// resolvePath resolves a dotted path like "item.company.domain" or "env.REGION".
func (ic *ItemContext) resolvePath(path string) (any, error) {
	root, rest, hasRest := strings.Cut(path, ".")

	switch root {
	case rootItem:
		if !hasRest {
			return ic.Item, nil
		}
		val, err := lookupNested(ic.Item, rest)
		if err != nil {
			// Missing item fields resolve to empty so optional parameters stay unset.
			return "", nil
		}
		return val, nil

	case rootIndex:
		if hasRest {
			return nil, fmt.Errorf("invalid index reference: %q", path)
		}
		return ic.Index, nil

	case rootJob:
		if rest != "name" {
			return nil, fmt.Errorf("invalid job reference: %q", path)
		}
		return ic.Job, nil

	case rootEnv:
		if !hasRest {
			return nil, fmt.Errorf("incomplete env reference: %q", path)
		}
		return ic.Env[rest], nil

	default:
		return nil, fmt.Errorf("unknown variable root %q in %q", root, path)
	}
}

func lookupNested(m map[string]any, path string) (any, error) {
	var current any = m
	for _, part := range strings.Split(path, ".") {
		mp, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot index into non-object at %q", part)
		}
		current, ok = mp[part]
		if !ok {
			return nil, fmt.Errorf("key %q not found", part)
		}
	}
	return current, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	result := b.String()
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return strings.Trim(result, "-")
}
