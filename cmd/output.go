package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"apollonode/internal/types"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes result as JSON, or as a summary plus one line per record.
func printResult(w io.Writer, result *types.RunResult) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "Run:       %s\n", result.RunID)
	fmt.Fprintf(w, "Operation: %s.%s\n", result.Resource, result.Operation)
	fmt.Fprintf(w, "Status:    %s\n", result.Status)
	fmt.Fprintf(w, "Items:     %d\n", result.Items)
	fmt.Fprintf(w, "Duration:  %dms\n", result.DurationMs)
	if result.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", result.Error)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(result.Planned) > 0 {
		fmt.Fprintln(tw, "\nITEM\tMETHOD\tPATH\tREQUEST")
		for _, p := range result.Planned {
			if p.Error != "" {
				fmt.Fprintf(tw, "%d\t-\t-\terror: %s\n", p.Item, p.Error)
				continue
			}
			payload := p.Body
			if payload == nil {
				payload = p.Query
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.Item, p.Method, p.Path, compact(payload))
		}
		return tw.Flush()
	}

	if len(result.Records) > 0 {
		fmt.Fprintln(tw, "\n#\tRECORD")
		for i, rec := range result.Records {
			fmt.Fprintf(tw, "%d\t%s\n", i, summarize(rec))
		}
	}
	return tw.Flush()
}

// summarize prints the identifying fields of rec, or the whole record when it has none.
func summarize(rec map[string]any) string {
	if msg, ok := rec["error"].(string); ok && len(rec) == 1 {
		return "error: " + msg
	}
	var parts []string
	for _, key := range []string{"id", "name", "email", "title", "primary_domain", "organization_name"} {
		if v, ok := rec[key]; ok && v != nil && v != "" {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	if len(parts) == 0 {
		return compact(rec)
	}
	return strings.Join(parts, " ")
}

func compact(v map[string]any) string {
	if len(v) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		val, err := json.Marshal(v[k])
		if err != nil {
			val = []byte(fmt.Sprint(v[k]))
		}
		fmt.Fprintf(&b, "%s=%s", k, val)
	}
	return b.String()
}
