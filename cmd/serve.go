package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/chative-shop-assistant/internal/httpapi"
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the query, conversation, item and metrics endpoints.

Listens on APP_ADDR (default :8000) until interrupted, then drains in-flight
requests for APP_SHUTDOWN_TIMEOUT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpCfg, err := configx.New[httpapi.Config]("APP")
		if err != nil {
			return fmt.Errorf("load app config: %w", err)
		}
		if serveAddr != "" {
			httpCfg.Addr = serveAddr
		}

		a, err := buildApp(ctx, httpCfg.MetricsNamespace)
		if err != nil {
			return err
		}
		defer a.Close()

		return httpapi.New(*httpCfg, a.assistant, a.metrics).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides APP_ADDR")
	rootCmd.AddCommand(serveCmd)
}
