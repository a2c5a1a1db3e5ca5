package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/metrics"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/platform/feishu"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/platform/github"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/platform/telegram"
	httpapi "github.com/wyg1997/ActionsBot/internal/interfaces/http"
	"github.com/wyg1997/ActionsBot/internal/interfaces/http/handler"
	"github.com/wyg1997/ActionsBot/internal/usecase"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.IsValid(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.GetLogger()
	log.Info("Starting ActionsBot for %s (workflow %s on %s)...", cfg.GitHub.Repo, cfg.GitHub.WorkflowName, cfg.GitHub.Branch)

	commands, err := config.LoadCommandTable(cfg.CommandsFile)
	if err != nil {
		return err
	}
	log.Info("Loaded %d launch commands", commands.Len())

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize services
	telegramService := telegram.NewTelegramService(&cfg.Telegram, m)
	actionsService := github.NewActionsService(&cfg.GitHub, m)
	audit := feishu.NewAuditNotifier(&cfg.Feishu)
	if cfg.Feishu.Enabled() {
		log.Info("Feishu audit mirror enabled for chat %s", cfg.Feishu.AuditChatID)
	}

	// Initialize use cases
	dispatchUseCase := usecase.NewDispatchUseCase(cfg, telegramService, actionsService, commands, audit, m)

	// Initialize handlers
	telegramHandler := handler.NewTelegramHandler(dispatchUseCase)
	adminHandler := handler.NewAdminHandler(&cfg.Server, telegramService, telegramService)

	if cfg.Server.SecretPath == "" {
		log.Warn("SECRET_PATH is not set, only /setup is available for administration")
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpapi.NewRouter(&cfg.Server, telegramHandler, adminHandler, reg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting on port %s", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down server (%v)...", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
	return nil
}
