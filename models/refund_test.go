package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionType_Valid(t *testing.T) {
	assert.True(t, DecisionApprove.Valid())
	assert.True(t, DecisionReject.Valid())
	assert.True(t, DecisionEscalate.Valid())
	assert.False(t, DecisionType("").Valid())
	assert.False(t, DecisionType("MAYBE").Valid())
}

func TestRefundRequest_EffectiveReason(t *testing.T) {
	tests := []struct {
		name string
		req  RefundRequest
		want string
	}{
		{
			name: "selected reason is used as-is",
			req:  RefundRequest{Reason: ReasonSizeIssue},
			want: "Size issue",
		},
		{
			name: "other with description uses the description",
			req: RefundRequest{
				Reason:                 ReasonOther,
				OtherReasonDescription: "Box arrived crushed",
			},
			want: "Box arrived crushed",
		},
		{
			name: "other without description falls back to the label",
			req:  RefundRequest{Reason: ReasonOther},
			want: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.EffectiveReason())
		})
	}
}

func TestUnknownProductDetails(t *testing.T) {
	d := UnknownProductDetails()
	assert.Equal(t, "Unknown Product", d.ProductName)
	assert.Equal(t, "Unknown", d.Category)
	assert.Zero(t, d.RefundAmount)
}

func TestRefundDecision_JSONShape(t *testing.T) {
	dec := RefundDecision{
		Decision:   DecisionApprove,
		Confidence: 0.9,
		ProductDetails: ProductDetails{
			ProductName:  "Wireless Headphones",
			Category:     "electronics",
			RefundAmount: 1500,
		},
	}

	raw, err := json.Marshal(dec)
	require.NoError(t, err)

	// Reasons is omitted entirely on approvals
	assert.NotContains(t, string(raw), "reasons")
	assert.Contains(t, string(raw), `"refund_amount":1500`)
}

func TestRefundReasons(t *testing.T) {
	reasons := RefundReasons()
	require.Len(t, reasons, 7)
	assert.Equal(t, ReasonNotAsDescribed, reasons[0])
	assert.Equal(t, ReasonOther, reasons[len(reasons)-1])
}
