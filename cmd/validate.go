package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"apollonode/internal/engine"
	"apollonode/internal/loader"
	"apollonode/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <job-file|job-dir>",
	Short: "Validate a YAML or JSON job file, or every job under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  validateJobs,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateJobs(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	jobs := map[string]*types.JobDef{}
	if info.IsDir() {
		jobs, err = loader.LoadJobs(path)
	} else {
		var job *types.JobDef
		job, err = loader.LoadJob(path)
		if job != nil {
			jobs[job.Name] = job
		}
	}
	if err != nil {
		return err
	}

	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	router := newRouter()
	failed := 0
	for _, name := range names {
		job := jobs[name]
		if err := engine.ValidateJob(job, router); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Job %q: %v\n", name, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Job %q is valid (%s.%s, %d item(s)).\n", name, job.Resource, job.Operation, len(job.Items))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d job(s) invalid", failed, len(jobs))
	}
	return nil
}
