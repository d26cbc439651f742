package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apollonode/internal/apollo"
)

var describeCmd = &cobra.Command{
	Use:   "describe <resource> <operation>",
	Short: "Show the fields of an operation",
	Args:  cobra.ExactArgs(2),
	RunE:  describeOperation,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func describeOperation(cmd *cobra.Command, args []string) error {
	h, err := newRouter().Resolve(args[0], args[1])
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(h)
	}

	doc := operationMarkdown(h)
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err == nil {
			if rendered, err := r.Render(doc); err == nil {
				doc = rendered
			}
		}
	}
	_, err = fmt.Fprint(out, doc)
	return err
}

// operationMarkdown documents h as a markdown page with a field table.
func operationMarkdown(h *apollo.Handler) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", h.Key(), h.Description)
	fmt.Fprintf(&b, "- **Endpoint:** `%s %s`\n", h.Method, h.Path)
	if h.Batch {
		b.WriteString("- **Mode:** batch (parameters are read once from the first item)\n")
	} else {
		b.WriteString("- **Mode:** per-item (one call per input item)\n")
	}

	b.WriteString("\n## Fields\n\n| Name | Type | Required | Default | Description |\n|---|---|---|---|---|\n")
	for _, f := range h.Fields {
		required := ""
		if f.Required {
			required = "yes"
		}
		def := ""
		if f.Default != nil && f.Default != "" {
			def = fmt.Sprintf("`%v`", f.Default)
		}
		desc := f.Description
		if len(f.Options) > 0 {
			desc += " (one of: " + strings.Join(f.Options, ", ") + ")"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n", f.Name, f.Type, required, def, strings.ReplaceAll(desc, "|", `\|`))
	}
	return b.String()
}
