package domain

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram parse modes
const (
	ParseModeMarkdown = "Markdown"
)

// SendOptions are the optional sendMessage fields. Zero values are left out of the request.
type SendOptions struct {
	ParseMode          string
	ReplyMarkup        *tgbotapi.InlineKeyboardMarkup
	DisableLinkPreview bool
}

// EditOptions are the optional editMessageText fields
type EditOptions struct {
	ParseMode   string
	ReplyMarkup *tgbotapi.InlineKeyboardMarkup
}

// AnswerOptions control the toast shown for an answered callback
type AnswerOptions struct {
	Text      string
	ShowAlert bool
}

// SendResult is the raw outcome of one messaging API call
type SendResult struct {
	OK         bool
	StatusCode int
	Body       json.RawMessage
	Err        error // set when no response was received
}

// Messenger sends, edits and acknowledges chat messages.
// Failures are reported in SendResult, never retried.
type Messenger interface {
	SendMessage(ctx context.Context, chatID string, text string, opts SendOptions) SendResult
	EditMessage(ctx context.Context, chatID string, messageID int, text string, opts EditOptions) SendResult
	AnswerCallback(ctx context.Context, callbackID string, opts AnswerOptions) SendResult
}
