package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"apollonode/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  serveHTTP,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func serveHTTP(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	eng, err := newEngine(reg, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewWebhookServer(eng, reg)
	addr := fmt.Sprintf(":%d", servePort)
	fmt.Fprintf(cmd.ErrOrStderr(), "Starting HTTP server on %s\n", addr)
	for _, h := range eng.Router.Handlers() {
		fmt.Fprintf(cmd.ErrOrStderr(), "  POST /v1/%s/%s\n", h.Resource, h.Operation)
	}
	return srv.ListenAndServe(ctx, addr)
}
