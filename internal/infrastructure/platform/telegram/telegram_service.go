package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/metrics"
	"github.com/wyg1997/ActionsBot/pkg/logger"
	"github.com/wyg1997/ActionsBot/pkg/text"
)

const (
	maxResponseBytes = 1 << 20
	logBodyLimit     = 500
)

// AllowedUpdates are the update types the webhook subscribes to
var AllowedUpdates = []string{"message", "callback_query"}

// TelegramService talks to the Telegram Bot API
type TelegramService struct {
	token   string
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewTelegramService creates a new Telegram service
func NewTelegramService(cfg *config.TelegramConfig, m *metrics.Metrics) *TelegramService {
	return &TelegramService{
		token:   cfg.BotToken,
		baseURL: cfg.APIBaseURL,
		client:  &http.Client{Timeout: cfg.ClientTimeout},
		metrics: m,
		log:     logger.GetLogger(),
	}
}

// WithLogger replaces the service logger
func (s *TelegramService) WithLogger(log logger.Logger) *TelegramService {
	s.log = log
	return s
}

type sendMessageRequest struct {
	ChatID                string                         `json:"chat_id"`
	Text                  string                         `json:"text"`
	ParseMode             string                         `json:"parse_mode,omitempty"`
	ReplyMarkup           *tgbotapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	DisableWebPagePreview bool                           `json:"disable_web_page_preview,omitempty"`
}

type editMessageRequest struct {
	ChatID      string                         `json:"chat_id"`
	MessageID   int                            `json:"message_id"`
	Text        string                         `json:"text"`
	ParseMode   string                         `json:"parse_mode,omitempty"`
	ReplyMarkup *tgbotapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

type setWebhookRequest struct {
	URL                string   `json:"url"`
	AllowedUpdates     []string `json:"allowed_updates"`
	DropPendingUpdates bool     `json:"drop_pending_updates"`
}

type deleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates"`
}

// SendMessage sends a new message to a chat
func (s *TelegramService) SendMessage(ctx context.Context, chatID string, content string, opts domain.SendOptions) domain.SendResult {
	return s.call(ctx, http.MethodPost, "sendMessage", sendMessageRequest{
		ChatID:                chatID,
		Text:                  content,
		ParseMode:             opts.ParseMode,
		ReplyMarkup:           opts.ReplyMarkup,
		DisableWebPagePreview: opts.DisableLinkPreview,
	})
}

// EditMessage replaces the text of a message previously sent by the bot
func (s *TelegramService) EditMessage(ctx context.Context, chatID string, messageID int, content string, opts domain.EditOptions) domain.SendResult {
	return s.call(ctx, http.MethodPost, "editMessageText", editMessageRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        content,
		ParseMode:   opts.ParseMode,
		ReplyMarkup: opts.ReplyMarkup,
	})
}

// AnswerCallback acknowledges a button click so the client stops its loading indicator
func (s *TelegramService) AnswerCallback(ctx context.Context, callbackID string, opts domain.AnswerOptions) domain.SendResult {
	return s.call(ctx, http.MethodPost, "answerCallbackQuery", answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            opts.Text,
		ShowAlert:       opts.ShowAlert,
	})
}

// SetWebhook points the bot's webhook at webhookURL
func (s *TelegramService) SetWebhook(ctx context.Context, webhookURL string) domain.SendResult {
	return s.call(ctx, http.MethodPost, "setWebhook", setWebhookRequest{
		URL:            webhookURL,
		AllowedUpdates: AllowedUpdates,
	})
}

// DeleteWebhook removes the webhook and drops pending updates
func (s *TelegramService) DeleteWebhook(ctx context.Context) domain.SendResult {
	return s.call(ctx, http.MethodPost, "deleteWebhook", deleteWebhookRequest{DropPendingUpdates: true})
}

// GetWebhookInfo returns the current webhook status
func (s *TelegramService) GetWebhookInfo(ctx context.Context) domain.SendResult {
	return s.call(ctx, http.MethodGet, "getWebhookInfo", nil)
}

func (s *TelegramService) call(ctx context.Context, httpMethod, method string, payload interface{}) domain.SendResult {
	endpoint := fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.token, method)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.log.Error("Telegram %s: marshal payload: %v", method, err)
			return domain.SendResult{Err: fmt.Errorf("marshal %s payload: %w", method, err)}
		}
		s.log.Debug("Telegram %s payload: %s", method, data)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, body)
	if err != nil {
		s.log.Error("Telegram %s: create request: %v", method, err)
		return domain.SendResult{Err: fmt.Errorf("create %s request: %w", method, err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveProviderCall("telegram", method, false, time.Since(start))
		// The URL carries the bot token, so only the cause is logged
		err = unwrapURLError(err)
		s.log.Error("Telegram %s failed: %v", method, err)
		return domain.SendResult{Err: fmt.Errorf("telegram %s: %w", method, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		s.log.Warn("Telegram %s: read response: %v", method, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	s.metrics.ObserveProviderCall("telegram", method, ok, time.Since(start))

	result := domain.SendResult{OK: ok, StatusCode: resp.StatusCode}
	if json.Valid(raw) {
		result.Body = json.RawMessage(raw)
	}

	if !ok {
		s.log.Error("Telegram %s failed: status=%d, response=%s", method, resp.StatusCode, text.Truncate(string(raw), logBodyLimit))
		return result
	}

	s.log.Debug("Telegram %s succeeded: response=%s", method, text.Truncate(string(raw), logBodyLimit))
	return result
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
