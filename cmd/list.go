package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all supported operations",
	Args:  cobra.NoArgs,
	RunE:  listOperations,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listOperations(cmd *cobra.Command, args []string) error {
	handlers := newRouter().Handlers()

	if outputFormat == "json" {
		type operationSummary struct {
			Resource    string `json:"resource"`
			Operation   string `json:"operation"`
			Method      string `json:"method"`
			Path        string `json:"path"`
			Batch       bool   `json:"batch"`
			Description string `json:"description"`
		}
		summaries := make([]operationSummary, 0, len(handlers))
		for _, h := range handlers {
			summaries = append(summaries, operationSummary{
				Resource:    string(h.Resource),
				Operation:   string(h.Operation),
				Method:      h.Method,
				Path:        h.Path,
				Batch:       h.Batch,
				Description: h.Description,
			})
		}
		return printJSON(summaries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tOPERATION\tMODE\tENDPOINT\tDESCRIPTION")
	for _, h := range handlers {
		mode := "per-item"
		if h.Batch {
			mode = "batch"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n", h.Resource, h.Operation, mode, h.Method, h.Path, h.Description)
	}
	return w.Flush()
}
