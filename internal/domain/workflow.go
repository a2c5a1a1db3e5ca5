package domain

import "context"

// WorkflowTriggerRequest carries the inputs of a workflow dispatch.
// TunnelToken may be empty.
type WorkflowTriggerRequest struct {
	ChatID      string
	Image       string
	BotToken    string
	TunnelToken string
}

// WorkflowResult is the user-facing outcome of a workflow call
type WorkflowResult struct {
	Success bool
	Message string
}

// Success builds a successful WorkflowResult
func Success(message string) WorkflowResult {
	return WorkflowResult{Success: true, Message: message}
}

// Failure builds a failed WorkflowResult
func Failure(message string) WorkflowResult {
	return WorkflowResult{Success: false, Message: message}
}

// WorkflowService triggers and cancels remote CI workflow runs.
// Every outcome, including transport errors, comes back as a WorkflowResult.
type WorkflowService interface {
	TriggerWorkflow(ctx context.Context, req WorkflowTriggerRequest) WorkflowResult
	CancelWorkflow(ctx context.Context, runID string) WorkflowResult
}
