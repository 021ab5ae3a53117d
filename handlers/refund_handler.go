package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/refund-checker/middleware"
	"github.com/upb/refund-checker/models"
	"github.com/upb/refund-checker/utils"
	"go.uber.org/zap"
)

// EvaluateRequest is the request body for POST /api/v1/refunds/evaluate
type EvaluateRequest struct {
	OrderID                string `json:"order_id" validate:"required"`
	ProductID              string `json:"product_id" validate:"required"`
	Reason                 string `json:"reason" validate:"required"`
	OtherReasonDescription string `json:"other_reason_description,omitempty"`
}

// RefundEvaluator defines the interface for refund evaluation
type RefundEvaluator interface {
	// Evaluate classifies a validated refund request. It always returns a
	// decision, never an error.
	Evaluate(ctx context.Context, req models.RefundRequest) *models.RefundDecision
}

// RefundHandler handles refund-related HTTP requests
type RefundHandler struct {
	service RefundEvaluator
	logger  *zap.Logger
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(service RefundEvaluator, logger *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		logger:  logger,
	}
}

// HandleEvaluate handles POST /api/v1/refunds/evaluate.
// Input validation happens here; the service assumes well-formed input and
// always answers with a decision.
func (h *RefundHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var evalReq EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&evalReq); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&evalReq); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		details := make(map[string]interface{})
		for field, msg := range utils.GetValidationFields(err) {
			details[field] = msg
		}
		_ = utils.WriteBadRequest(w, err.Error(), details)
		return
	}

	if err := validateReason(evalReq); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	h.logger.Debug("evaluating refund request",
		zap.String("request_id", requestID),
		zap.String("order_id", evalReq.OrderID),
		zap.String("product_id", evalReq.ProductID))

	decision := h.service.Evaluate(ctx, models.RefundRequest{
		OrderID:                evalReq.OrderID,
		ProductID:              evalReq.ProductID,
		Reason:                 models.RefundReason(evalReq.Reason),
		OtherReasonDescription: evalReq.OtherReasonDescription,
	})

	h.logger.Info("refund request evaluated",
		zap.String("request_id", requestID),
		zap.String("order_id", evalReq.OrderID),
		zap.String("product_id", evalReq.ProductID),
		zap.String("decision", string(decision.Decision)),
		zap.Float64("confidence", decision.Confidence))

	if err := utils.WriteOK(w, decision); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleListReasons handles GET /api/v1/refunds/reasons. The form layer
// renders this list.
func (h *RefundHandler) HandleListReasons(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteOK(w, models.RefundReasons()); err != nil {
		h.logger.Error("failed to write reasons response", zap.Error(err))
	}
}

// validateReason checks the reason against the fixed enumeration and
// requires a description when the customer selected "Other".
func validateReason(req EvaluateRequest) error {
	reason := models.RefundReason(req.Reason)

	known := false
	for _, r := range models.RefundReasons() {
		if reason == r {
			known = true
			break
		}
	}
	if !known {
		return &utils.ValidationError{
			Message: "reason must be one of the supported refund reasons",
			Fields:  map[string]string{"reason": "unknown reason"},
		}
	}

	if reason == models.ReasonOther && req.OtherReasonDescription == "" {
		return &utils.ValidationError{
			Message: "other_reason_description is required when reason is \"Other\"",
			Fields:  map[string]string{"other_reason_description": "required when reason is \"Other\""},
		}
	}

	return nil
}
