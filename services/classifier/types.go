package classifier

import "github.com/upb/refund-checker/models"

// Classification is the structured verdict returned by the reason judge.
// ProductDetails is whatever the judge echoed back; the refund service
// discards it in favor of the resolver snapshot, so nothing downstream may
// read it as authoritative.
type Classification struct {
	Decision       models.DecisionType    `json:"decision"`
	Confidence     float64                `json:"confidence"`
	ProductDetails *models.ProductDetails `json:"product_details,omitempty"`
	Reasons        []string               `json:"reasons,omitempty"`
}

// ClassifierError represents an error from the classification service
type ClassifierError struct {
	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ClassifierError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ClassifierError) Unwrap() error {
	return e.Cause
}

// NewClassifierError creates a new classifier error
func NewClassifierError(code, message string, statusCode int, cause error) *ClassifierError {
	return &ClassifierError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// Common error codes
const (
	ErrCodeRequest       = "REQUEST_ERROR"
	ErrCodeHTTP          = "HTTP_ERROR"
	ErrCodeStatus        = "STATUS_ERROR"
	ErrCodeEmptyResponse = "EMPTY_RESPONSE"
	ErrCodeMalformed     = "MALFORMED_RESPONSE"
)

// Mistral agent completions wire types

type agentCompletionRequest struct {
	AgentID        string          `json:"agent_id"`
	Messages       []agentMessage  `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type agentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type agentCompletionResponse struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Choices []agentChoice `json:"choices"`
}

type agentChoice struct {
	Index        int          `json:"index"`
	Message      agentMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

type agentErrorResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// verdictPayload is the JSON document the agent is instructed to emit.
// Confidence is a pointer so a missing field is distinguishable from 0.
type verdictPayload struct {
	Decision       models.DecisionType    `json:"decision"`
	Confidence     *float64               `json:"confidence"`
	ProductDetails *models.ProductDetails `json:"product_details"`
	Reasons        []string               `json:"reasons"`
}
