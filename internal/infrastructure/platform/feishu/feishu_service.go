package feishu

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

// FeishuService mirrors workflow actions into a Feishu group chat
type FeishuService struct {
	config *config.FeishuConfig
	client *lark.Client
	log    logger.Logger
}

var _ domain.AuditNotifier = (*FeishuService)(nil)

// NewFeishuService creates a new Feishu service
func NewFeishuService(cfg *config.FeishuConfig) *FeishuService {
	return &FeishuService{
		config: cfg,
		client: lark.NewClient(cfg.AppID, cfg.AppSecret),
		log:    logger.GetLogger(),
	}
}

// NewAuditNotifier returns the Feishu mirror when configured, otherwise a no-op
func NewAuditNotifier(cfg *config.FeishuConfig) domain.AuditNotifier {
	if !cfg.Enabled() {
		return domain.NopAuditNotifier{}
	}
	return NewFeishuService(cfg)
}

// Notify posts a summary of event to the audit chat
func (s *FeishuService) Notify(ctx context.Context, event domain.AuditEvent) error {
	return s.SendMessage(ctx, s.config.AuditChatID, FormatAuditEvent(event))
}

// SendMessage sends a text message to a chat
func (s *FeishuService) SendMessage(ctx context.Context, chatID string, content string) error {
	s.log.Debug("Will send message: %s to %s", content, chatID)

	textContent, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(chatID).
			Content(string(textContent)).
			MsgType("text").
			Build()).
		Build()

	resp, err := s.client.Im.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		return fmt.Errorf("failed to send message: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	s.log.Debug("Successfully sent audit message to chat %s", chatID)
	return nil
}

// FormatAuditEvent renders an event as a single plain-text line
func FormatAuditEvent(event domain.AuditEvent) string {
	status := "ok"
	if !event.Result.Success {
		status = "failed"
	}
	return fmt.Sprintf("[actionsbot] %s %s by user %d in chat %d: %s (%s)",
		event.Action, event.Target, event.SenderID, event.ChatID, status, event.Result.Message)
}
