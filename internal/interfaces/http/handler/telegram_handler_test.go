package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

type recordingDispatcher struct {
	updates []domain.Update
	ctxLog  logger.Logger
	panic   bool
}

func (d *recordingDispatcher) HandleUpdate(ctx context.Context, update domain.Update) {
	d.updates = append(d.updates, update)
	d.ctxLog = logger.FromContext(ctx)
	if d.panic {
		panic("boom")
	}
}

func postUpdate(h *TelegramHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func TestWebhookDecodesMessage(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{
		"update_id": 10,
		"message": {
			"message_id": 3,
			"date": 0,
			"from": {"id": 111, "is_bot": false, "first_name": "Ada"},
			"chat": {"id": -500, "type": "group"},
			"text": "/chrome@mybot"
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	require.Len(t, d.updates, 1)
	assert.Equal(t, domain.Update{
		UpdateID: 10,
		Message: &domain.Message{
			ChatID:     -500,
			SenderID:   111,
			SenderName: "Ada",
			Text:       "/chrome@mybot",
		},
	}, d.updates[0])
	assert.NotNil(t, d.ctxLog)
}

func TestWebhookDecodesCallbackQuery(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{
		"update_id": 11,
		"callback_query": {
			"id": "cb-9",
			"from": {"id": 222, "is_bot": false, "first_name": "Lin"},
			"message": {"message_id": 77, "date": 0, "chat": {"id": 500, "type": "private"}},
			"data": "123456"
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.updates, 1)
	assert.Nil(t, d.updates[0].Message)
	assert.Equal(t, &domain.CallbackQuery{
		ID:        "cb-9",
		SenderID:  222,
		ChatID:    500,
		MessageID: 77,
		Data:      "123456",
	}, d.updates[0].CallbackQuery)
}

func TestWebhookPassesUnknownUpdates(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{"update_id": 12, "edited_message": {"message_id": 1, "date": 0, "chat": {"id": 1, "type": "private"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.updates, 1)
	assert.Equal(t, domain.Update{UpdateID: 12}, d.updates[0])
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{"update_id": `)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error", rec.Body.String())
	assert.Empty(t, d.updates)
}

func TestWebhookRejectsCallbackWithoutMessage(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{"update_id": 13, "callback_query": {"id": "x", "from": {"id": 1, "is_bot": false, "first_name": "A"}, "data": "1"}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, d.updates)
}

func TestWebhookRecoversPanic(t *testing.T) {
	d := &recordingDispatcher{panic: true}
	h := NewTelegramHandler(d)

	rec := postUpdate(h, `{"update_id": 14, "message": {"message_id": 1, "date": 0, "from": {"id": 1, "is_bot": false, "first_name": "A"}, "chat": {"id": 1, "type": "private"}, "text": "/start"}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error", rec.Body.String())
}
