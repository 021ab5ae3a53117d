package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/refund-checker/config"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

// MistralAdapter calls a pre-configured Mistral agent to judge subjective
// refund reasons. A single attempt per classification; callers own the
// fallback when the call fails.
type MistralAdapter struct {
	config     config.ClassifierConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewMistralAdapter creates a new Mistral agent adapter
func NewMistralAdapter(cfg config.ClassifierConfig, logger *zap.Logger) *MistralAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &MistralAdapter{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Classify sends the prompt to the agent and parses its structured verdict.
// The agent is asked for a json_object response; the verdict is the message
// content parsed as JSON. A response missing the decision or confidence
// fields is an error, not a usable verdict.
func (a *MistralAdapter) Classify(ctx context.Context, prompt string) (*Classification, error) {
	agentReq := agentCompletionRequest{
		AgentID: a.config.AgentID,
		Messages: []agentMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	reqBody, err := json.Marshal(agentReq)
	if err != nil {
		return nil, NewClassifierError(ErrCodeRequest, "failed to marshal request", 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/agents/completions", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, NewClassifierError(ErrCodeRequest, "failed to create request", 0, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewClassifierError(ErrCodeHTTP, "HTTP request failed", 0, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewClassifierError(ErrCodeHTTP, "failed to read response", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	var agentResp agentCompletionResponse
	if err := json.Unmarshal(respBody, &agentResp); err != nil {
		return nil, NewClassifierError(ErrCodeMalformed, "failed to unmarshal response", httpResp.StatusCode, err)
	}

	if len(agentResp.Choices) == 0 || agentResp.Choices[0].Message.Content == "" {
		return nil, NewClassifierError(ErrCodeEmptyResponse, "agent response missing content", httpResp.StatusCode, nil)
	}

	verdict, err := parseVerdict(agentResp.Choices[0].Message.Content)
	if err != nil {
		a.logger.Warn("agent returned unusable verdict",
			zap.String("response_id", agentResp.ID),
			zap.Error(err))
		return nil, err
	}

	a.logger.Debug("reason classified",
		zap.String("response_id", agentResp.ID),
		zap.String("decision", string(verdict.Decision)),
		zap.Float64("confidence", verdict.Confidence))

	return verdict, nil
}

// parseVerdict parses and validates the agent's JSON verdict
func parseVerdict(content string) (*Classification, error) {
	var payload verdictPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, NewClassifierError(ErrCodeMalformed, "verdict is not valid JSON", 0, err)
	}

	if !payload.Decision.Valid() {
		return nil, NewClassifierError(ErrCodeMalformed, "verdict has missing or unknown decision", 0, nil)
	}
	if payload.Confidence == nil || *payload.Confidence < 0 || *payload.Confidence > 1 {
		return nil, NewClassifierError(ErrCodeMalformed, "verdict has missing or out-of-range confidence", 0, nil)
	}

	return &Classification{
		Decision:       payload.Decision,
		Confidence:     *payload.Confidence,
		ProductDetails: payload.ProductDetails,
		Reasons:        payload.Reasons,
	}, nil
}

// handleErrorResponse handles non-200 agent API responses
func (a *MistralAdapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp agentErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return NewClassifierError(ErrCodeStatus, "agent API returned "+http.StatusText(statusCode), statusCode, errors.New(string(body)))
	}
	return NewClassifierError(ErrCodeStatus, errResp.Message, statusCode, errors.New(errResp.Message))
}
