package models

// DecisionType represents the outcome of a refund evaluation
type DecisionType string

const (
	DecisionApprove  DecisionType = "APPROVE"
	DecisionReject   DecisionType = "REJECT"
	DecisionEscalate DecisionType = "ESCALATE"
)

// Valid reports whether d is one of the three known decision values.
func (d DecisionType) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionEscalate:
		return true
	}
	return false
}

// RefundReason is one of the fixed reasons a customer can select on the
// refund form.
type RefundReason string

const (
	ReasonNotAsDescribed RefundReason = "Item not as described"
	ReasonDamaged        RefundReason = "Received damaged"
	ReasonWrongItem      RefundReason = "Wrong item delivered"
	ReasonSizeIssue      RefundReason = "Size issue"
	ReasonColorMismatch  RefundReason = "Color mismatch"
	ReasonChangedMind    RefundReason = "Changed my mind"
	ReasonOther          RefundReason = "Other"
)

// RefundReasons lists the selectable reasons in form order.
func RefundReasons() []RefundReason {
	return []RefundReason{
		ReasonNotAsDescribed,
		ReasonDamaged,
		ReasonWrongItem,
		ReasonSizeIssue,
		ReasonColorMismatch,
		ReasonChangedMind,
		ReasonOther,
	}
}

// RefundRequest is a single refund evaluation request. It is transient;
// nothing about it survives past the evaluation call.
type RefundRequest struct {
	OrderID                string       `json:"order_id"`
	ProductID              string       `json:"product_id"`
	Reason                 RefundReason `json:"reason"`
	OtherReasonDescription string       `json:"other_reason_description,omitempty"`
}

// EffectiveReason returns the text the classifier should judge: the free-form
// description when the customer selected "Other" and provided one, otherwise
// the selected reason label.
func (r RefundRequest) EffectiveReason() string {
	if r.Reason == ReasonOther && r.OtherReasonDescription != "" {
		return r.OtherReasonDescription
	}
	return string(r.Reason)
}

// ProductDetails is the product snapshot attached to every decision. It is
// always sourced from the resolved OrderProduct record, never from the
// classifier.
type ProductDetails struct {
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	RefundAmount float64 `json:"refund_amount"`
}

// UnknownProductDetails is the placeholder snapshot used when the order or
// product could not be resolved.
func UnknownProductDetails() ProductDetails {
	return ProductDetails{
		ProductName:  "Unknown Product",
		Category:     "Unknown",
		RefundAmount: 0,
	}
}

// ProductDetailsFrom builds the authoritative snapshot from a resolved
// product record.
func ProductDetailsFrom(p *OrderProduct) ProductDetails {
	return ProductDetails{
		ProductName:  p.Name,
		Category:     p.Category,
		RefundAmount: p.Price,
	}
}

// RefundDecision is the outcome of one evaluation.
type RefundDecision struct {
	Decision       DecisionType   `json:"decision"`
	Confidence     float64        `json:"confidence"`
	ProductDetails ProductDetails `json:"product_details"`
	Reasons        []string       `json:"reasons,omitempty"`
}
