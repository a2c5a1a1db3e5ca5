package domain

import "context"

// AuditEvent describes a workflow action taken on behalf of a chat user
type AuditEvent struct {
	Action   string // "trigger" or "cancel"
	SenderID int64
	ChatID   int64
	Target   string // image or run id
	Result   WorkflowResult
}

// AuditNotifier mirrors workflow actions to an operator channel
type AuditNotifier interface {
	Notify(ctx context.Context, event AuditEvent) error
}

// NopAuditNotifier discards events
type NopAuditNotifier struct{}

func (NopAuditNotifier) Notify(context.Context, AuditEvent) error { return nil }
