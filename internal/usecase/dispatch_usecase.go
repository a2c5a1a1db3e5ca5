package usecase

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/metrics"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

// Update kinds used in logs and metrics
const (
	kindMessage  = "message"
	kindCallback = "callback_query"
	kindUnknown  = "unknown"
)

// DispatchUseCaseImpl implements DispatchUseCase
type DispatchUseCaseImpl struct {
	config    *config.Config
	messenger domain.Messenger
	workflows domain.WorkflowService
	commands  *domain.CommandTable
	audit     domain.AuditNotifier
	metrics   *metrics.Metrics
}

// NewDispatchUseCase creates a new dispatch use case
func NewDispatchUseCase(
	cfg *config.Config,
	messenger domain.Messenger,
	workflows domain.WorkflowService,
	commands *domain.CommandTable,
	audit domain.AuditNotifier,
	m *metrics.Metrics,
) domain.DispatchUseCase {
	if audit == nil {
		audit = domain.NopAuditNotifier{}
	}
	return &DispatchUseCaseImpl{
		config:    cfg,
		messenger: messenger,
		workflows: workflows,
		commands:  commands,
		audit:     audit,
		metrics:   m,
	}
}

// HandleUpdate classifies the update and runs the matching flow
func (u *DispatchUseCaseImpl) HandleUpdate(ctx context.Context, update domain.Update) {
	switch {
	case update.CallbackQuery != nil:
		u.metrics.ObserveUpdate(kindCallback)
		u.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		u.metrics.ObserveUpdate(kindMessage)
		u.handleMessage(ctx, update.Message)
	default:
		u.metrics.ObserveUpdate(kindUnknown)
		logger.FromContext(ctx).Debug("Update type not recognized")
	}
}

func (u *DispatchUseCaseImpl) handleMessage(ctx context.Context, msg *domain.Message) {
	log := logger.FromContext(ctx).With("chat_id", msg.ChatID).With("user_id", msg.SenderID)
	ctx = logger.NewContext(ctx, log)

	log.Info("Received message: %q", msg.Text)

	if !domain.IsAuthorized(msg.SenderID, u.config.Telegram.AllowedUserIDs) {
		log.Warn("User is not authorized")
		u.metrics.ObserveUnauthorized(kindMessage)
		u.send(ctx, msg.ChatID, msgUnauthorized, domain.SendOptions{})
		return
	}

	command, ok := domain.ParseCommand(msg.Text)
	if !ok {
		log.Debug("Message is not a command, ignoring")
		return
	}

	switch command {
	case domain.CommandStart:
		u.metrics.ObserveCommand(command)
		u.handleStart(ctx, msg)
	case domain.CommandHelp:
		u.metrics.ObserveCommand(command)
		u.handleHelp(ctx, msg)
	case domain.CommandActionsList:
		u.metrics.ObserveCommand(command)
		u.handleActionsList(ctx, msg)
	default:
		image, found := u.commands.ImageFor(command)
		if !found {
			log.Debug("Unknown command: %s", command)
			return
		}
		u.metrics.ObserveCommand(command)
		u.handleLaunch(ctx, msg, image)
	}
}

func (u *DispatchUseCaseImpl) handleCallback(ctx context.Context, cb *domain.CallbackQuery) {
	log := logger.FromContext(ctx).With("chat_id", cb.ChatID).With("user_id", cb.SenderID)
	ctx = logger.NewContext(ctx, log)

	log.Info("Received callback query: data=%q", cb.Data)

	if !domain.IsAuthorized(cb.SenderID, u.config.Telegram.AllowedUserIDs) {
		log.Warn("User is not authorized for callback query")
		u.metrics.ObserveUnauthorized(kindCallback)
		u.messenger.AnswerCallback(ctx, cb.ID, domain.AnswerOptions{
			Text:      msgUnauthorizedCallback,
			ShowAlert: true,
		})
		return
	}

	// Acknowledge first so the client drops its spinner whatever happens next
	u.messenger.AnswerCallback(ctx, cb.ID, domain.AnswerOptions{})

	switch {
	case cb.Data == domain.CallbackListCommands:
		u.edit(ctx, cb, commandMenuText(u.commands), domain.EditOptions{ParseMode: domain.ParseModeMarkdown})
	case cb.Data == domain.CallbackShowHelp:
		u.edit(ctx, cb, quickGuideText(), domain.EditOptions{ParseMode: domain.ParseModeMarkdown})
	case domain.IsRunID(cb.Data):
		u.handleCancel(ctx, cb, cb.Data)
	default:
		log.Debug("Unknown callback data: %s", cb.Data)
	}
}

func (u *DispatchUseCaseImpl) handleStart(ctx context.Context, msg *domain.Message) {
	name := msg.SenderName
	if name == "" {
		name = defaultUserName
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 Available Commands", domain.CallbackListCommands)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Help & Guide", domain.CallbackShowHelp)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🌐 GitHub Repository", repoURL(u.config.GitHub.Repo))),
	)

	u.send(ctx, msg.ChatID, welcomeText(name), domain.SendOptions{
		ParseMode:   domain.ParseModeMarkdown,
		ReplyMarkup: &keyboard,
	})
}

func (u *DispatchUseCaseImpl) handleHelp(ctx context.Context, msg *domain.Message) {
	u.send(ctx, msg.ChatID, helpText(u.config.GitHub.Repo), domain.SendOptions{
		ParseMode:          domain.ParseModeMarkdown,
		DisableLinkPreview: true,
	})
}

func (u *DispatchUseCaseImpl) handleActionsList(ctx context.Context, msg *domain.Message) {
	u.send(ctx, msg.ChatID, actionsListText(u.commands), domain.SendOptions{
		ParseMode: domain.ParseModeMarkdown,
	})
}

// handleLaunch acknowledges, triggers the workflow and reports the outcome as
// three separate messages. An acknowledgment already sent stays even if the
// trigger fails.
func (u *DispatchUseCaseImpl) handleLaunch(ctx context.Context, msg *domain.Message, image string) {
	log := logger.FromContext(ctx)
	log.Info("User requested %s", image)

	u.send(ctx, msg.ChatID, fmt.Sprintf(msgStarting, image), domain.SendOptions{})

	result := u.workflows.TriggerWorkflow(ctx, domain.WorkflowTriggerRequest{
		ChatID:      chatIDString(msg.ChatID),
		Image:       image,
		BotToken:    u.config.Telegram.BotToken,
		TunnelToken: u.config.GitHub.TunnelToken,
	})
	u.metrics.ObserveWorkflow("trigger", result.Success)
	log.Info("Workflow trigger result: success=%t", result.Success)

	u.notify(ctx, domain.AuditEvent{
		Action:   "trigger",
		SenderID: msg.SenderID,
		ChatID:   msg.ChatID,
		Target:   image,
		Result:   result,
	})

	u.send(ctx, msg.ChatID, result.Message, domain.SendOptions{})
}

// handleCancel stops a run and edits the clicked message in place
func (u *DispatchUseCaseImpl) handleCancel(ctx context.Context, cb *domain.CallbackQuery, runID string) {
	logger.FromContext(ctx).Info("Canceling workflow run %s", runID)

	result := u.workflows.CancelWorkflow(ctx, runID)
	u.metrics.ObserveWorkflow("cancel", result.Success)

	u.notify(ctx, domain.AuditEvent{
		Action:   "cancel",
		SenderID: cb.SenderID,
		ChatID:   cb.ChatID,
		Target:   runID,
		Result:   result,
	})

	u.edit(ctx, cb, result.Message, domain.EditOptions{})
}

func (u *DispatchUseCaseImpl) send(ctx context.Context, chatID int64, content string, opts domain.SendOptions) {
	result := u.messenger.SendMessage(ctx, chatIDString(chatID), content, opts)
	if !result.OK {
		logger.FromContext(ctx).Warn("sendMessage did not succeed: status=%d, err=%v", result.StatusCode, result.Err)
	}
}

func (u *DispatchUseCaseImpl) edit(ctx context.Context, cb *domain.CallbackQuery, content string, opts domain.EditOptions) {
	result := u.messenger.EditMessage(ctx, chatIDString(cb.ChatID), cb.MessageID, content, opts)
	if !result.OK {
		logger.FromContext(ctx).Warn("editMessageText did not succeed: status=%d, err=%v", result.StatusCode, result.Err)
	}
}

func (u *DispatchUseCaseImpl) notify(ctx context.Context, event domain.AuditEvent) {
	if err := u.audit.Notify(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("Audit notification failed: %v", err)
	}
}

func chatIDString(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
