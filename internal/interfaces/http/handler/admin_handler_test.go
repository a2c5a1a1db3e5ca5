package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
)

type fakeWebhookAdmin struct {
	setURLs []string
	deleted int
	result  domain.SendResult
}

func (f *fakeWebhookAdmin) SetWebhook(_ context.Context, webhookURL string) domain.SendResult {
	f.setURLs = append(f.setURLs, webhookURL)
	return f.result
}

func (f *fakeWebhookAdmin) DeleteWebhook(context.Context) domain.SendResult {
	f.deleted++
	return f.result
}

func (f *fakeWebhookAdmin) GetWebhookInfo(context.Context) domain.SendResult {
	return f.result
}

type sentTest struct {
	chatID string
	text   string
	opts   domain.SendOptions
}

type fakeSender struct {
	sent   []sentTest
	result domain.SendResult
}

func (f *fakeSender) SendMessage(_ context.Context, chatID string, text string, opts domain.SendOptions) domain.SendResult {
	f.sent = append(f.sent, sentTest{chatID: chatID, text: text, opts: opts})
	return f.result
}

func (f *fakeSender) EditMessage(context.Context, string, int, string, domain.EditOptions) domain.SendResult {
	return f.result
}

func (f *fakeSender) AnswerCallback(context.Context, string, domain.AnswerOptions) domain.SendResult {
	return f.result
}

func okResult(body string) domain.SendResult {
	return domain.SendResult{OK: true, StatusCode: http.StatusOK, Body: json.RawMessage(body)}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSetupUsesRequestHost(t *testing.T) {
	admin := &fakeWebhookAdmin{result: okResult(`{"ok":true,"result":true}`)}
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s3cret"}, admin, &fakeSender{})

	req := httptest.NewRequest(http.MethodGet, "http://bot.example.com/s3cret/setup", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.Setup(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://bot.example.com/"}, admin.setURLs)

	body := decodeJSON(t, rec)
	assert.Equal(t, "https://bot.example.com/", body["webhook_url"])
	assert.Equal(t, "https://bot.example.com/s3cret/", body["admin_panel"])
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, map[string]interface{}{"ok": true, "result": true}, body["telegram_response"])
}

func TestSetupReportsTelegramFailure(t *testing.T) {
	admin := &fakeWebhookAdmin{result: domain.SendResult{StatusCode: http.StatusUnauthorized, Body: json.RawMessage(`{"ok":false}`)}}
	h := NewAdminHandler(&config.ServerConfig{}, admin, &fakeSender{})

	rec := httptest.NewRecorder()
	h.Setup(rec, httptest.NewRequest(http.MethodGet, "http://bot.example.com/setup", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "http://bot.example.com/", body["webhook_url"])
}

func TestSetupReportsNetworkError(t *testing.T) {
	admin := &fakeWebhookAdmin{result: domain.SendResult{Err: errors.New("dial tcp: refused")}}
	h := NewAdminHandler(&config.ServerConfig{}, admin, &fakeSender{})

	rec := httptest.NewRecorder()
	h.Setup(rec, httptest.NewRequest(http.MethodGet, "/setup", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "dial tcp: refused", body["error"])
	assert.Equal(t, "failed", body["status"])
}

func TestWebhookInfoPassesThrough(t *testing.T) {
	admin := &fakeWebhookAdmin{result: okResult(`{"ok":true,"result":{"url":"https://bot.example.com/","pending_update_count":0}}`)}
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s"}, admin, &fakeSender{})

	rec := httptest.NewRecorder()
	h.WebhookInfo(rec, httptest.NewRequest(http.MethodGet, "/s/webhook-info", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"result":{"url":"https://bot.example.com/","pending_update_count":0}}`, rec.Body.String())
}

func TestDeleteWebhook(t *testing.T) {
	admin := &fakeWebhookAdmin{result: okResult(`{"ok":true}`)}
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s"}, admin, &fakeSender{})

	rec := httptest.NewRecorder()
	h.DeleteWebhook(rec, httptest.NewRequest(http.MethodGet, "/s/delete-webhook", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, admin.deleted)
	body := decodeJSON(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Run /setup to configure webhook again", body["note"])
}

func TestTestRequiresChatID(t *testing.T) {
	sender := &fakeSender{}
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s"}, &fakeWebhookAdmin{}, sender)

	rec := httptest.NewRecorder()
	h.Test(rec, httptest.NewRequest(http.MethodGet, "/s/test", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing chat_id parameter", decodeJSON(t, rec)["error"])
	assert.Empty(t, sender.sent)
}

func TestTestSendsThreeMessages(t *testing.T) {
	sender := &fakeSender{result: okResult(`{"ok":true}`)}
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s"}, &fakeWebhookAdmin{}, sender)

	rec := httptest.NewRecorder()
	h.Test(rec, httptest.NewRequest(http.MethodGet, "/s/test?chat_id=@channel", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 3)
	for _, s := range sender.sent {
		assert.Equal(t, "@channel", s.chatID)
	}
	assert.Equal(t, domain.SendOptions{}, sender.sent[0].opts)
	assert.Equal(t, domain.ParseModeMarkdown, sender.sent[1].opts.ParseMode)
	require.NotNil(t, sender.sent[2].opts.ReplyMarkup)
	require.NotNil(t, sender.sent[2].opts.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "test_callback", *sender.sent[2].opts.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

	body := decodeJSON(t, rec)
	assert.Equal(t, "Tests completed", body["status"])
	assert.Equal(t, map[string]interface{}{"ok": true}, body["test3_keyboard"])
}

func TestIndexListsEndpoints(t *testing.T) {
	h := NewAdminHandler(&config.ServerConfig{SecretPath: "s3cret"}, &fakeWebhookAdmin{}, &fakeSender{})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/s3cret/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GET /s3cret/webhook-info")
	assert.Contains(t, rec.Body.String(), "POST / - Telegram webhook endpoint")
}
