package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"apollonode/internal/apollo"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the configured API key is accepted by Apollo",
	Args:  cobra.NoArgs,
	RunE:  verifyCredentials,
}

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "List the account's sequences as name/ID pairs",
	Args:  cobra.NoArgs,
	RunE:  listSequences,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(sequencesCmd)
}

func verifyCredentials(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient(nil)
	if err != nil {
		return err
	}
	if err := apollo.VerifyCredentials(cmd.Context(), client); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Apollo API key is valid.")
	return nil
}

func listSequences(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient(nil)
	if err != nil {
		return err
	}
	options, err := apollo.ListSequenceOptions(cmd.Context(), client)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(options)
	}
	for _, o := range options {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", o.Value, o.Name)
	}
	return nil
}
