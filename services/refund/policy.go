package refund

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/upb/refund-checker/models"
)

// refundPolicyText is the published refund policy, passed verbatim to the
// reason classifier as grounding context.
const refundPolicyText = `
REFUND POLICY
1. GENERAL RULES
- Refunds are allowed based on product category rules.
- Refund must be issued only to the original payment method.
- For all calculations, use Delivered Date from the database and the current date.
- SaleCategory = true -> Product is NON-REFUNDABLE.

2. CATEGORY-SPECIFIC RULES
A. ELECTRONICS
- Refund window: 15 days from Delivered Date.
- Must include original box and accessories.
- Customer-caused damage (broken, scratched) -> REJECT.

B. CLOTHING/APPAREL
- Refund window: 30 days.
- Must have tags attached.
- Clothing must not be worn, washed, or altered.

3. NON-REFUNDABLE RULES
- Any product with SaleCategory = true.
- Digital products
- Gift cards

4. ESCALATION RULES
ESCALATE when:
- Refund amount (product price) > 5000 (Any Category).
- OrderID or ProductID not found.
- Delivery date not available.
- Scenario unclear from provided reason.
- Indications of fraud or abuse.

5. REJECTION RULES
REJECT when:
- Outside refund window (15 days Electronics, 30 days Clothing).
- Sale product.
- Clothing reason suggests used/washed/no tags.
- Electronics reason suggests customer-caused damage.
`

// promptTemplate frames the classifier's task. The deterministic rules have
// already run by the time this prompt is built, so the agent only judges the
// stated reason.
const promptTemplate = `Analyze this refund request against the attached Policy.
The strict rules (Date window, Price limit, Sale status) have already been checked and passed.

Your task is to evaluate the REASON.
- If the reason implies customer-caused damage (Electronics) -> REJECT.
- If the reason implies worn/washed/no tags (Clothing) -> REJECT.
- If the reason is valid (e.g., "Item not as described", "Size issue" within window) -> APPROVE.
- If the reason is unclear or indicates fraud -> ESCALATE.

Respond with a JSON object: {"decision": "APPROVE"|"REJECT"|"ESCALATE", "confidence": number, "reasons": [string]}.

Context Data:
%s

%s`

const dateLayout = "2006-01-02"

// classifierPayload is the context record embedded in the classifier prompt
type classifierPayload struct {
	OrderID       string  `json:"order_id"`
	ProductID     string  `json:"product_id"`
	Reason        string  `json:"reason"`
	OrderedDate   string  `json:"ordered_date"`
	DeliveredDate string  `json:"delivered_date"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	SaleCategory  bool    `json:"sale_category"`
	CurrentDate   string  `json:"current_date"`
}

// buildPrompt assembles the classifier prompt from the resolved records, the
// effective reason and the evaluation date.
func buildPrompt(order *models.Order, product *models.OrderProduct, reason string, now time.Time) (string, error) {
	payload := classifierPayload{
		OrderID:       order.OrderID,
		ProductID:     product.ProductID,
		Reason:        reason,
		OrderedDate:   order.OrderedDate.Format(dateLayout),
		DeliveredDate: order.DeliveredDate.Format(dateLayout),
		Name:          product.Name,
		Category:      product.Category,
		Price:         product.Price,
		SaleCategory:  product.SaleCategory,
		CurrentDate:   now.Format(dateLayout),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal classifier payload: %w", err)
	}

	return fmt.Sprintf(promptTemplate, string(raw), refundPolicyText), nil
}
