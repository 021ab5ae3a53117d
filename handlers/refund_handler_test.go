package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/refund-checker/models"
	"go.uber.org/zap"
)

// MockRefundEvaluator is a mock implementation of RefundEvaluator
type MockRefundEvaluator struct {
	mock.Mock
}

func (m *MockRefundEvaluator) Evaluate(ctx context.Context, req models.RefundRequest) *models.RefundDecision {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.RefundDecision)
}

func postEvaluate(t *testing.T, handler *RefundHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refunds/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleEvaluate(w, req)
	return w
}

func TestHandleEvaluate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the service decision", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		service.On("Evaluate", mock.Anything, models.RefundRequest{
			OrderID:   "ORD5001",
			ProductID: "P1001",
			Reason:    models.ReasonSizeIssue,
		}).Return(&models.RefundDecision{
			Decision:   models.DecisionApprove,
			Confidence: 0.9,
			ProductDetails: models.ProductDetails{
				ProductName:  "Wireless Headphones",
				Category:     "electronics",
				RefundAmount: 1500,
			},
		})

		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"order_id":"ORD5001","product_id":"P1001","reason":"Size issue"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data models.RefundDecision `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, models.DecisionApprove, response.Data.Decision)
		assert.Equal(t, 0.9, response.Data.Confidence)
		assert.Equal(t, "Wireless Headphones", response.Data.ProductDetails.ProductName)

		service.AssertExpectations(t)
	})

	t.Run("escalations are still 200 responses", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		service.On("Evaluate", mock.Anything, mock.Anything).Return(&models.RefundDecision{
			Decision:       models.DecisionEscalate,
			Confidence:     1.0,
			ProductDetails: models.UnknownProductDetails(),
			Reasons:        []string{"Order ID 'ORD9999' not found in the system. Manual verification required."},
		})

		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"order_id":"ORD9999","product_id":"P1001","reason":"Size issue"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data models.RefundDecision `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, models.DecisionEscalate, response.Data.Decision)
	})

	t.Run("rejects an invalid JSON body", func(t *testing.T) {
		handler := NewRefundHandler(new(MockRefundEvaluator), logger)
		w := postEvaluate(t, handler, `{not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"reason":"Size issue"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "Evaluate")
	})

	t.Run("rejects an unknown reason", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"order_id":"ORD5001","product_id":"P1001","reason":"I just felt like it"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "Evaluate")
	})

	t.Run("rejects Other without a description", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"order_id":"ORD5001","product_id":"P1001","reason":"Other"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "Evaluate")
	})

	t.Run("accepts Other with a description", func(t *testing.T) {
		service := new(MockRefundEvaluator)
		service.On("Evaluate", mock.Anything, models.RefundRequest{
			OrderID:                "ORD5001",
			ProductID:              "P1001",
			Reason:                 models.ReasonOther,
			OtherReasonDescription: "Box arrived crushed",
		}).Return(&models.RefundDecision{
			Decision:       models.DecisionEscalate,
			Confidence:     0.6,
			ProductDetails: models.UnknownProductDetails(),
		})

		handler := NewRefundHandler(service, logger)
		w := postEvaluate(t, handler, `{"order_id":"ORD5001","product_id":"P1001","reason":"Other","other_reason_description":"Box arrived crushed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})
}

func TestHandleListReasons(t *testing.T) {
	handler := NewRefundHandler(new(MockRefundEvaluator), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/refunds/reasons", nil)
	w := httptest.NewRecorder()
	handler.HandleListReasons(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Data, 7)
	assert.Contains(t, response.Data, "Item not as described")
	assert.Contains(t, response.Data, "Other")
}
