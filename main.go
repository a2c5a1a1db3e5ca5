package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "actionsbot",
	Short: "Telegram bot that launches GitHub Actions desktop instances",
	Long: `ActionsBot receives Telegram webhook updates from allow-listed users and
turns their commands into GitHub Actions workflow dispatches.

Running it without a subcommand starts the webhook server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the configured log level
func loadConfig() (*config.Config, error) {
	cfg := config.LoadConfig()

	if _, ok := logger.ParseLevel(cfg.LogLevel); !ok {
		return nil, &config.ConfigError{Field: "log", Message: "unknown LOG_LEVEL " + cfg.LogLevel}
	}
	logger.SetLogLevel(cfg.LogLevel)

	return cfg, nil
}
