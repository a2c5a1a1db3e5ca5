package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/platform/telegram"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the Telegram webhook registration",
}

var webhookSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Point the bot's webhook at a public URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		webhookURL, _ := cmd.Flags().GetString("url")
		if !strings.HasSuffix(webhookURL, "/") {
			webhookURL += "/"
		}

		svc, err := newTelegramAdmin()
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "setWebhook", svc.SetWebhook(cmd.Context(), webhookURL))
	},
}

var webhookInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current webhook status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newTelegramAdmin()
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "getWebhookInfo", svc.GetWebhookInfo(cmd.Context()))
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the webhook and drop pending updates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newTelegramAdmin()
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "deleteWebhook", svc.DeleteWebhook(cmd.Context()))
	},
}

func init() {
	webhookSetupCmd.Flags().String("url", "", "Public base URL of the server, e.g. https://bot.example.com")
	webhookSetupCmd.MarkFlagRequired("url")

	webhookCmd.AddCommand(webhookSetupCmd, webhookInfoCmd, webhookDeleteCmd)
	rootCmd.AddCommand(webhookCmd)
}

func newTelegramAdmin() (*telegram.TelegramService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Telegram.BotToken == "" {
		return nil, &config.ConfigError{Field: "telegram", Message: "TELEGRAM_BOT_TOKEN is required"}
	}
	return telegram.NewTelegramService(&cfg.Telegram, nil), nil
}

// printResult writes the provider response and turns a failed call into an error
func printResult(w io.Writer, method string, result domain.SendResult) error {
	if result.Err != nil {
		return result.Err
	}

	if len(result.Body) > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, result.Body, "", "  "); err != nil {
			return fmt.Errorf("format %s response: %w", method, err)
		}
		fmt.Fprintln(w, out.String())
	}

	if !result.OK {
		return fmt.Errorf("%s failed with status %d", method, result.StatusCode)
	}
	return nil
}
