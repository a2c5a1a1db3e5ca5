package github

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

	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/domain"
	"github.com/wyg1997/ActionsBot/internal/infrastructure/metrics"
	"github.com/wyg1997/ActionsBot/pkg/logger"
	"github.com/wyg1997/ActionsBot/pkg/text"
)

const (
	apiVersion       = "2022-11-28"
	userAgent        = "ActionsBot"
	errorBodyLimit   = 200
	maxResponseBytes = 64 << 10
)

// Result messages shown to the chat user
const (
	msgTriggered    = "✅ Workflow successfully triggered!"
	msgHTTPError    = "❌ HTTP Error: %d\n%s"
	msgNetworkError = "❌ Network Error: %s"
	msgStopping     = "🟠 Workflow %s is being stopped!"
	msgStopFailed   = "❌ Failed to stop: %d"
)

// ActionsService dispatches and cancels GitHub Actions workflow runs
type ActionsService struct {
	config  *config.GitHubConfig
	client  *http.Client
	metrics *metrics.Metrics
	log     logger.Logger
}

var _ domain.WorkflowService = (*ActionsService)(nil)

// NewActionsService creates a new GitHub Actions service
func NewActionsService(cfg *config.GitHubConfig, m *metrics.Metrics) *ActionsService {
	return &ActionsService{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.ClientTimeout},
		metrics: m,
		log:     logger.GetLogger(),
	}
}

type dispatchRequest struct {
	Ref    string         `json:"ref"`
	Inputs dispatchInputs `json:"inputs"`
}

type dispatchInputs struct {
	ChatID          string `json:"chatid"`
	Image           string `json:"image"`
	BotToken        string `json:"bottoken"`
	CloudflareToken string `json:"cloudflaretoken"`
}

// TriggerWorkflow starts a workflow_dispatch run for the requested image.
// The API does not return the new run id, so the result cannot reference it.
func (s *ActionsService) TriggerWorkflow(ctx context.Context, req domain.WorkflowTriggerRequest) domain.WorkflowResult {
	endpoint := fmt.Sprintf("%s/repos/%s/actions/workflows/%s/dispatches",
		s.config.APIBaseURL, s.config.Repo, url.PathEscape(s.config.WorkflowName))

	payload, err := json.Marshal(dispatchRequest{
		Ref: s.config.Branch,
		Inputs: dispatchInputs{
			ChatID:          req.ChatID,
			Image:           req.Image,
			BotToken:        req.BotToken,
			CloudflareToken: req.TunnelToken,
		},
	})
	if err != nil {
		return domain.Failure(fmt.Sprintf(msgNetworkError, err))
	}

	s.log.Info("Dispatching workflow %s on %s@%s: image=%s, chat_id=%s",
		s.config.WorkflowName, s.config.Repo, s.config.Branch, req.Image, req.ChatID)

	status, body, err := s.post(ctx, "dispatches", endpoint, payload)
	if err != nil {
		s.log.Error("Error triggering workflow: %v", err)
		return domain.Failure(fmt.Sprintf(msgNetworkError, err))
	}
	if !isSuccess(status) {
		s.log.Error("GitHub API error: %d - %s", status, text.Truncate(body, errorBodyLimit))
		return domain.Failure(fmt.Sprintf(msgHTTPError, status, text.Truncate(body, errorBodyLimit)))
	}

	return domain.Success(msgTriggered)
}

// CancelWorkflow requests cancellation of a workflow run
func (s *ActionsService) CancelWorkflow(ctx context.Context, runID string) domain.WorkflowResult {
	endpoint := fmt.Sprintf("%s/repos/%s/actions/runs/%s/cancel",
		s.config.APIBaseURL, s.config.Repo, url.PathEscape(runID))

	s.log.Info("Canceling workflow run %s on %s", runID, s.config.Repo)

	status, body, err := s.post(ctx, "cancel", endpoint, nil)
	if err != nil {
		s.log.Error("Error canceling workflow: %v", err)
		return domain.Failure(fmt.Sprintf(msgNetworkError, err))
	}
	if !isSuccess(status) {
		s.log.Error("Failed to cancel workflow %s: %d - %s", runID, status, text.Truncate(body, errorBodyLimit))
		return domain.Failure(fmt.Sprintf(msgStopFailed, status))
	}

	return domain.Success(fmt.Sprintf(msgStopping, runID))
}

// post sends one request and returns the status and body. err is set only
// when no response was received.
func (s *ActionsService) post(ctx context.Context, method, endpoint string, payload []byte) (int, string, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveProviderCall("github", method, false, time.Since(start))
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		s.log.Warn("GitHub %s: read response: %v", method, err)
	}

	s.metrics.ObserveProviderCall("github", method, isSuccess(resp.StatusCode), time.Since(start))
	return resp.StatusCode, string(raw), nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
