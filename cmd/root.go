package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"apollonode/internal/config"
)

// Version is set at build time with -ldflags "-X apollonode/cmd.Version=...".
var Version = "0.1.0"

var (
	configFile   string
	secretsFile  string
	outputFormat string
	logLevel     string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "apollonode",
	Short:         "apollonode: Apollo.io connector node",
	Long:          "Runs Apollo.io sequence, person, organization and contact operations over lists of input items, from the CLI, over HTTP or as MCP tools.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.Options{
			ConfigFile:  configFile,
			SecretsFile: secretsFile,
		})
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		level, err := config.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets-file", "", "path to .env-style secrets file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

func Execute() error {
	return rootCmd.Execute()
}
