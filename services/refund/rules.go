package refund

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/upb/refund-checker/config"
	"github.com/upb/refund-checker/models"
)

// ruleInput is the resolved case a deterministic rule evaluates against
type ruleInput struct {
	Order    *models.Order
	Product  *models.OrderProduct
	Snapshot models.ProductDetails
	Now      time.Time
}

// policyRule is one deterministic check. Evaluate returns a terminal
// decision when the rule fires, nil when the case passes through to the
// next rule.
type policyRule struct {
	name     string
	evaluate func(in ruleInput) *models.RefundDecision
}

// windowRule is a category return window. Categories without an entry in
// the window table have no window check at this stage.
type windowRule struct {
	label string
	days  int
}

// newRuleChain builds the ordered deterministic rule chain. Order matters:
// a sale item over the price ceiling must REJECT, not ESCALATE, so the
// final-sale check runs first.
func newRuleChain(cfg config.PolicyConfig) []policyRule {
	windows := map[string]windowRule{
		"electronics": {label: "Electronics", days: cfg.ElectronicsWindowDays},
		"clothing":    {label: "Clothing/Apparel", days: cfg.ClothingWindowDays},
		"apparel":     {label: "Clothing/Apparel", days: cfg.ClothingWindowDays},
		"apparels":    {label: "Clothing/Apparel", days: cfg.ClothingWindowDays},
	}

	return []policyRule{
		{
			name: "final_sale",
			evaluate: func(in ruleInput) *models.RefundDecision {
				if !in.Product.SaleCategory {
					return nil
				}
				return &models.RefundDecision{
					Decision:       models.DecisionReject,
					Confidence:     cfg.RuleConfidence,
					ProductDetails: in.Snapshot,
					Reasons:        []string{"Item is marked as Final Sale (sale_category=true)."},
				}
			},
		},
		{
			name: "high_value",
			evaluate: func(in ruleInput) *models.RefundDecision {
				if in.Product.Price <= cfg.HighValueThreshold {
					return nil
				}
				return &models.RefundDecision{
					Decision:       models.DecisionEscalate,
					Confidence:     cfg.RuleConfidence,
					ProductDetails: in.Snapshot,
					Reasons: []string{fmt.Sprintf(
						"Refund amount (Rs %s) exceeds limit of Rs %s. Manual approval required.",
						formatAmount(in.Product.Price), formatAmount(cfg.HighValueThreshold))},
				}
			},
		},
		{
			name: "return_window",
			evaluate: func(in ruleInput) *models.RefundDecision {
				window, ok := windows[strings.ToLower(in.Product.Category)]
				if !ok {
					return nil
				}
				days := daysSinceDelivery(in.Order.DeliveredDate, in.Now)
				if days <= window.days {
					return nil
				}
				return &models.RefundDecision{
					Decision:       models.DecisionReject,
					Confidence:     cfg.RuleConfidence,
					ProductDetails: in.Snapshot,
					Reasons: []string{fmt.Sprintf(
						"Return window expired. %s must be returned within %d days. (Current: %d days since delivery)",
						window.label, window.days, days)},
				}
			},
		},
	}
}

// daysSinceDelivery counts elapsed days, rounding any partial day up. A
// delivery 15 days and one hour ago counts as 16 days.
func daysSinceDelivery(delivered, now time.Time) int {
	diff := now.Sub(delivered)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// formatAmount renders a currency amount with thousands separators, e.g.
// 15000 -> "15,000". Fractional paise are kept only when present.
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
