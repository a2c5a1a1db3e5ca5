package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/metrics"
	"github.com/wyg1997/ActionsBot/internal/interfaces/http/handler"
)

type nopDispatcher struct{ calls int }

func (d *nopDispatcher) HandleUpdate(context.Context, domain.Update) { d.calls++ }

type stubTelegram struct{}

func (stubTelegram) SendMessage(context.Context, string, string, domain.SendOptions) domain.SendResult {
	return okResult()
}

func (stubTelegram) EditMessage(context.Context, string, int, string, domain.EditOptions) domain.SendResult {
	return okResult()
}

func (stubTelegram) AnswerCallback(context.Context, string, domain.AnswerOptions) domain.SendResult {
	return okResult()
}

func (stubTelegram) SetWebhook(context.Context, string) domain.SendResult { return okResult() }

func (stubTelegram) DeleteWebhook(context.Context) domain.SendResult { return okResult() }

func (stubTelegram) GetWebhookInfo(context.Context) domain.SendResult { return okResult() }

func okResult() domain.SendResult {
	return domain.SendResult{OK: true, StatusCode: http.StatusOK, Body: json.RawMessage(`{"ok":true}`)}
}

func newTestRouter(secret string) (http.Handler, *nopDispatcher) {
	cfg := &config.ServerConfig{SecretPath: secret}
	d := &nopDispatcher{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveUpdate("message")

	return NewRouter(cfg, handler.NewTelegramHandler(d), handler.NewAdminHandler(cfg, stubTelegram{}, stubTelegram{}), reg), d
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestRouterWithSecretPath(t *testing.T) {
	r, d := newTestRouter("s3cret")

	rec := serve(r, http.MethodPost, "/", `{"update_id":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, d.calls)

	for _, path := range []string{"/s3cret/", "/s3cret/health", "/s3cret/setup", "/s3cret/webhook-info", "/s3cret/delete-webhook", "/s3cret/test?chat_id=1"} {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, path, "").Code, path)
	}

	metricsRec := serve(r, http.MethodGet, "/s3cret/metrics", "")
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "actionsbot_updates_total")

	for _, path := range []string{"/setup", "/health", "/other/health", "/s3cret/unknown"} {
		rec := serve(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/s3cret/setup", "").Code)
}

func TestRouterWithoutSecretPath(t *testing.T) {
	r, _ := newTestRouter("")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/setup", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/", `{"update_id":1}`).Code)

	for _, path := range []string{"/health", "/webhook-info", "/metrics", "/test?chat_id=1"} {
		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, path, "").Code, path)
	}
}
