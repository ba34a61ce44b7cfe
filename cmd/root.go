package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
	logx "github.com/tanpawarit/chative-shop-assistant/pkg/logger"
	_ "github.com/tanpawarit/chative-shop-assistant/pkg/logger/autoload"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shop-assistant",
	Short: "Catalog-aware shopping assistant",
	Long: `Answers customer questions about the item catalog.

Each query is matched against the catalog (SKU, price limit, category or item
name), combined with the recent conversation of its session and sent to the
configured model. Without an OPENROUTER_API_KEY the assistant lists featured
items instead.

Quick Start:
  shop-assistant serve                          # HTTP API on APP_ADDR
  shop-assistant ask "Do you have SKU1234567?"  # one-off query
  shop-assistant items laptop --max 500         # search the catalog`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)

		conf, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return fmt.Errorf("load log config: %w", err)
		}
		if verbose {
			conf.Debug = true
		}
		logx.Init(*conf)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (defaults to ./.env when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
