package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

// WebhookAdmin manages the bot's webhook registration
type WebhookAdmin interface {
	SetWebhook(ctx context.Context, webhookURL string) domain.SendResult
	DeleteWebhook(ctx context.Context) domain.SendResult
	GetWebhookInfo(ctx context.Context) domain.SendResult
}

// AdminHandler serves the operator endpoints
type AdminHandler struct {
	config    *config.ServerConfig
	webhooks  WebhookAdmin
	messenger domain.Messenger
	logger    logger.Logger
}

// NewAdminHandler creates handler
func NewAdminHandler(cfg *config.ServerConfig, webhooks WebhookAdmin, messenger domain.Messenger) *AdminHandler {
	return &AdminHandler{
		config:    cfg,
		webhooks:  webhooks,
		messenger: messenger,
		logger:    logger.GetLogger(),
	}
}

// Index lists the admin endpoints
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	p := "/" + h.config.SecretPath
	writeText(w, http.StatusOK, "🤖 Telegram Bot - Admin Panel\n\n"+
		"Available endpoints:\n"+
		fmt.Sprintf("- GET %s/health - Health check\n", p)+
		fmt.Sprintf("- GET %s/setup - Configure webhook\n", p)+
		fmt.Sprintf("- GET %s/webhook-info - Check webhook status\n", p)+
		fmt.Sprintf("- GET %s/delete-webhook - Reset webhook\n", p)+
		fmt.Sprintf("- GET %s/test?chat_id=ID - Test message sending\n", p)+
		fmt.Sprintf("- GET %s/metrics - Prometheus metrics\n\n", p)+
		"Main webhook:\n"+
		"- POST / - Telegram webhook endpoint")
}

// Health reports liveness
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"service":       "actionsbot",
		"authenticated": true,
	})
}

// Setup points the webhook at the host this request arrived on
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	base := fmt.Sprintf("%s://%s", requestScheme(r), r.Host)
	webhookURL := base + "/"

	h.logger.Info("Setting webhook to %s", webhookURL)
	result := h.webhooks.SetWebhook(r.Context(), webhookURL)
	if result.Err != nil {
		writeFailure(w, result.Err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusInternalServerError
	}

	adminPanel := base + "/"
	if h.config.SecretPath != "" {
		adminPanel = fmt.Sprintf("%s/%s/", base, h.config.SecretPath)
	}

	writeJSON(w, status, map[string]interface{}{
		"webhook_url":       webhookURL,
		"admin_panel":       adminPanel,
		"telegram_response": rawOrNull(result.Body),
		"status":            statusText(result.OK),
	})
}

// WebhookInfo relays getWebhookInfo
func (h *AdminHandler) WebhookInfo(w http.ResponseWriter, r *http.Request) {
	result := h.webhooks.GetWebhookInfo(r.Context())
	if result.Err != nil {
		writeFailure(w, result.Err)
		return
	}
	writeJSON(w, http.StatusOK, rawOrNull(result.Body))
}

// DeleteWebhook removes the webhook and drops pending updates
func (h *AdminHandler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Deleting webhook")
	result := h.webhooks.DeleteWebhook(r.Context())
	if result.Err != nil {
		writeFailure(w, result.Err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]interface{}{
		"message":           "Webhook deleted/reset successfully",
		"telegram_response": rawOrNull(result.Body),
		"status":            statusText(result.OK),
		"note":              "Run /setup to configure webhook again",
	})
}

// Test sends a plain, a Markdown and a keyboard message to chat_id
func (h *AdminHandler) Test(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing chat_id parameter",
			"usage": "/test?chat_id=YOUR_CHAT_ID",
		})
		return
	}

	ctx := r.Context()
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Test Button", "test_callback")),
	)

	results := []domain.SendResult{
		h.messenger.SendMessage(ctx, chatID, "🧪 Test 1: Simple message", domain.SendOptions{}),
		h.messenger.SendMessage(ctx, chatID, "*Test 2:* Message with `Markdown`", domain.SendOptions{ParseMode: domain.ParseModeMarkdown}),
		h.messenger.SendMessage(ctx, chatID, "🧪 Test 3: Message with keyboard", domain.SendOptions{ReplyMarkup: &keyboard}),
	}
	for _, res := range results {
		if res.Err != nil {
			writeFailure(w, res.Err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "Tests completed",
		"test1_simple":   rawOrNull(results[0].Body),
		"test2_markdown": rawOrNull(results[1].Body),
		"test3_keyboard": rawOrNull(results[2].Body),
	})
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func statusText(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}

func rawOrNull(body json.RawMessage) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	return body
}

func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":  err.Error(),
		"status": "failed",
	})
}
