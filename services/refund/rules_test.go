package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/refund-checker/config"
	"github.com/upb/refund-checker/models"
)

func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		HighValueThreshold:    5000,
		ElectronicsWindowDays: 15,
		ClothingWindowDays:    30,
		RuleConfidence:        1.0,
		FallbackConfidence:    0.5,
	}
}

func testInput(product *models.OrderProduct, delivered, now time.Time) ruleInput {
	order := &models.Order{
		OrderID:       product.OrderID,
		OrderedDate:   delivered.AddDate(0, 0, -4),
		DeliveredDate: delivered,
	}
	return ruleInput{
		Order:    order,
		Product:  product,
		Snapshot: models.ProductDetailsFrom(product),
		Now:      now,
	}
}

func runChain(t *testing.T, in ruleInput) *models.RefundDecision {
	t.Helper()
	for _, rule := range newRuleChain(testPolicy()) {
		if decision := rule.evaluate(in); decision != nil {
			return decision
		}
	}
	return nil
}

func TestRuleChain_FinalSale(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// Sale status dominates every other rule: expired window AND over the
	// price ceiling, yet the outcome is still REJECT.
	product := &models.OrderProduct{
		ProductID:    "P1002",
		OrderID:      "ORD5001",
		Name:         "Discounted Smartwatch",
		Category:     "electronics",
		Price:        15000,
		SaleCategory: true,
	}

	decision := runChain(t, testInput(product, now.AddDate(0, 0, -60), now))
	require.NotNil(t, decision)
	assert.Equal(t, models.DecisionReject, decision.Decision)
	assert.Equal(t, 1.0, decision.Confidence)
	assert.Equal(t, []string{"Item is marked as Final Sale (sale_category=true)."}, decision.Reasons)
	assert.Equal(t, "Discounted Smartwatch", decision.ProductDetails.ProductName)
}

func TestRuleChain_HighValue(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	product := &models.OrderProduct{
		ProductID: "P1003",
		OrderID:   "ORD5001",
		Name:      "Premium Gaming Monitor",
		Category:  "electronics",
		Price:     15000,
	}

	decision := runChain(t, testInput(product, now.AddDate(0, 0, -2), now))
	require.NotNil(t, decision)
	assert.Equal(t, models.DecisionEscalate, decision.Decision)
	assert.Equal(t, 1.0, decision.Confidence)
	require.Len(t, decision.Reasons, 1)
	assert.Equal(t, "Refund amount (Rs 15,000) exceeds limit of Rs 5,000. Manual approval required.", decision.Reasons[0])
}

func TestRuleChain_HighValueBoundary(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// Exactly at the threshold is not over it
	product := &models.OrderProduct{
		ProductID: "P1", OrderID: "O1", Name: "Laptop Stand", Category: "other", Price: 5000,
	}
	assert.Nil(t, runChain(t, testInput(product, now.AddDate(0, 0, -2), now)))

	product.Price = 5000.01
	decision := runChain(t, testInput(product, now.AddDate(0, 0, -2), now))
	require.NotNil(t, decision)
	assert.Equal(t, models.DecisionEscalate, decision.Decision)
}

func TestRuleChain_ReturnWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		category   string
		daysAgo    int
		wantReject bool
		wantReason string
	}{
		{
			name:     "electronics inside window",
			category: "electronics",
			daysAgo:  10,
		},
		{
			name:     "electronics at window boundary",
			category: "electronics",
			daysAgo:  15,
		},
		{
			name:       "electronics past window",
			category:   "electronics",
			daysAgo:    16,
			wantReject: true,
			wantReason: "Return window expired. Electronics must be returned within 15 days. (Current: 16 days since delivery)",
		},
		{
			name:     "clothing at window boundary",
			category: "clothing",
			daysAgo:  30,
		},
		{
			name:       "clothing past window",
			category:   "clothing",
			daysAgo:    31,
			wantReject: true,
			wantReason: "Return window expired. Clothing/Apparel must be returned within 30 days. (Current: 31 days since delivery)",
		},
		{
			name:       "apparel synonym",
			category:   "Apparel",
			daysAgo:    31,
			wantReject: true,
			wantReason: "Return window expired. Clothing/Apparel must be returned within 30 days. (Current: 31 days since delivery)",
		},
		{
			name:       "apparels synonym",
			category:   "APPARELS",
			daysAgo:    45,
			wantReject: true,
			wantReason: "Return window expired. Clothing/Apparel must be returned within 30 days. (Current: 45 days since delivery)",
		},
		{
			name:       "mixed-case electronics",
			category:   "Electronics",
			daysAgo:    20,
			wantReject: true,
			wantReason: "Return window expired. Electronics must be returned within 15 days. (Current: 20 days since delivery)",
		},
		{
			name:     "unrecognized category has no window rule",
			category: "furniture",
			daysAgo:  365,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &models.OrderProduct{
				ProductID: "P1", OrderID: "O1", Name: "Item", Category: tt.category, Price: 1000,
			}
			decision := runChain(t, testInput(product, now.AddDate(0, 0, -tt.daysAgo), now))

			if !tt.wantReject {
				assert.Nil(t, decision)
				return
			}
			require.NotNil(t, decision)
			assert.Equal(t, models.DecisionReject, decision.Decision)
			assert.Equal(t, 1.0, decision.Confidence)
			assert.Equal(t, []string{tt.wantReason}, decision.Reasons)
		})
	}
}

func TestDaysSinceDelivery(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 15, daysSinceDelivery(now.AddDate(0, 0, -15), now))
	assert.Equal(t, 16, daysSinceDelivery(now.AddDate(0, 0, -16), now))

	// Partial days round up
	assert.Equal(t, 16, daysSinceDelivery(now.AddDate(0, 0, -15).Add(-time.Hour), now))

	// Future delivery dates count by absolute distance
	assert.Equal(t, 3, daysSinceDelivery(now.AddDate(0, 0, 3), now))

	assert.Equal(t, 0, daysSinceDelivery(now, now))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5,000", formatAmount(5000))
	assert.Equal(t, "15,000", formatAmount(15000))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1,234,567", formatAmount(1234567))
	assert.Equal(t, "5,000.5", formatAmount(5000.5))
}
