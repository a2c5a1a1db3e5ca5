package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

const maxUpdateBytes = 1 << 20

// TelegramHandler receives Telegram webhook updates
type TelegramHandler struct {
	dispatcher domain.DispatchUseCase
	logger     logger.Logger
}

// NewTelegramHandler creates handler
func NewTelegramHandler(dispatcher domain.DispatchUseCase) *TelegramHandler {
	return &TelegramHandler{
		dispatcher: dispatcher,
		logger:     logger.GetLogger(),
	}
}

// Webhook processes one update synchronously. Any failure, including a
// panic further down, is answered with 500 so Telegram redelivers.
func (h *TelegramHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", uuid.NewString())
	ctx := logger.NewContext(r.Context(), log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Panic while handling webhook: %v", rec)
			writeText(w, http.StatusInternalServerError, "Error")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		log.Error("read body: %v", err)
		writeText(w, http.StatusInternalServerError, "Error")
		return
	}
	log.Debug("Received webhook update: %s", body)

	var raw tgbotapi.Update
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Error("json unmarshal: %v", err)
		writeText(w, http.StatusInternalServerError, "Error")
		return
	}

	update, err := toDomainUpdate(raw)
	if err != nil {
		log.Error("Invalid update %d: %v", raw.UpdateID, err)
		writeText(w, http.StatusInternalServerError, "Error")
		return
	}

	h.dispatcher.HandleUpdate(ctx, update)
	writeText(w, http.StatusOK, "OK")
}

// toDomainUpdate keeps only the fields the dispatcher reads. Updates that are
// neither messages nor callback queries map to an empty update.
func toDomainUpdate(raw tgbotapi.Update) (domain.Update, error) {
	update := domain.Update{UpdateID: raw.UpdateID}

	if cb := raw.CallbackQuery; cb != nil {
		if cb.From == nil {
			return update, errors.New("callback query without sender")
		}
		if cb.Message == nil || cb.Message.Chat == nil {
			return update, fmt.Errorf("callback query %s without message", cb.ID)
		}
		update.CallbackQuery = &domain.CallbackQuery{
			ID:        cb.ID,
			SenderID:  cb.From.ID,
			ChatID:    cb.Message.Chat.ID,
			MessageID: cb.Message.MessageID,
			Data:      cb.Data,
		}
		return update, nil
	}

	if msg := raw.Message; msg != nil {
		if msg.From == nil {
			return update, fmt.Errorf("message %d without sender", msg.MessageID)
		}
		if msg.Chat == nil {
			return update, fmt.Errorf("message %d without chat", msg.MessageID)
		}
		update.Message = &domain.Message{
			ChatID:     msg.Chat.ID,
			SenderID:   msg.From.ID,
			SenderName: msg.From.FirstName,
			Text:       msg.Text,
		}
	}

	return update, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
