package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"apollonode/internal/engine"
	"apollonode/internal/loader"
	"apollonode/internal/types"
)

var (
	paramsJSON     string
	itemsFile      string
	jobFile        string
	continueOnFail bool
	dryRun         bool
)

var runCmd = &cobra.Command{
	Use:   "run [<resource> <operation>]",
	Short: "Execute an operation over input items",
	Long: `Execute one Apollo operation.

Either name the operation and pass parameters and items on the command line:

  apollonode run person enrich --params '{"personEmail":"${{ item.email }}"}' --items leads.json

or run a job file that carries all of it:

  apollonode run --job jobs/enrich-leads.yaml`,
	Args: func(cmd *cobra.Command, args []string) error {
		if jobFile != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runOperation,
}

func init() {
	runCmd.Flags().StringVar(&paramsJSON, "params", "{}", "JSON object of node parameters")
	runCmd.Flags().StringVar(&itemsFile, "items", "", "JSON file with the input items (array or single object)")
	runCmd.Flags().StringVar(&jobFile, "job", "", "YAML or JSON job file")
	runCmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "turn per-item failures into error records")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the requests that would be sent without calling Apollo")
	rootCmd.AddCommand(runCmd)
}

func runOperation(cmd *cobra.Command, args []string) error {
	job, err := jobFromFlags(cmd, args)
	if err != nil {
		return err
	}

	eng, err := newEngine(nil, dryRun)
	if err != nil {
		return err
	}

	var result *types.RunResult
	if dryRun {
		result, err = eng.DryRun(job)
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		result, err = eng.Run(ctx, job)
	}
	if err != nil {
		return err
	}

	if err := printResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Status == types.StatusFailed {
		return errors.New("run failed")
	}
	return nil
}

func jobFromFlags(cmd *cobra.Command, args []string) (*types.JobDef, error) {
	var job *types.JobDef
	if jobFile != "" {
		loaded, err := loader.LoadJob(jobFile)
		if err != nil {
			return nil, err
		}
		job = loaded
	} else {
		job = &types.JobDef{
			Name:      args[0] + "." + args[1],
			Resource:  args[0],
			Operation: args[1],
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(paramsJSON)))
		dec.UseNumber()
		if err := dec.Decode(&job.Parameters); err != nil {
			return nil, fmt.Errorf("parsing --params JSON: %w", err)
		}
	}

	if itemsFile != "" {
		items, err := loader.LoadItems(itemsFile)
		if err != nil {
			return nil, err
		}
		job.Items = items
	}
	if cmd.Flags().Changed("continue-on-fail") {
		job.ContinueOnFail = continueOnFail
	}

	if err := engine.ValidateJob(job, newRouter()); err != nil {
		return nil, err
	}
	return job, nil
}
