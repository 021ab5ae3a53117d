package refund

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/refund-checker/config"
	"github.com/upb/refund-checker/models"
	"github.com/upb/refund-checker/repositories"
	"github.com/upb/refund-checker/services/classifier"
	"go.uber.org/zap"
)

const classifierUnavailableReason = "AI Evaluation service unavailable. Manual review required."

// ReasonClassifier judges a subjective refund reason against the policy
type ReasonClassifier interface {
	Classify(ctx context.Context, prompt string) (*classifier.Classification, error)
}

// Service evaluates refund requests: resolve the records, run the
// deterministic rule chain, and hand surviving cases to the reason
// classifier. Evaluate always produces a decision; every failure mode inside
// the service resolves to an escalation rather than an error, so the caller
// can always render an outcome.
type Service struct {
	orders     repositories.OrderRepository
	products   repositories.ProductRepository
	classifier ReasonClassifier
	policy     config.PolicyConfig
	rules      []policyRule
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new refund evaluation service
func NewService(
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	reasonClassifier ReasonClassifier,
	policy config.PolicyConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:     orders,
		products:   products,
		classifier: reasonClassifier,
		policy:     policy,
		rules:      newRuleChain(policy),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the evaluation clock. Window boundaries depend on the
// current date, so tests pin it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Evaluate classifies a refund request as APPROVE, REJECT or ESCALATE.
// Input is assumed to be validated at the transport boundary.
func (s *Service) Evaluate(ctx context.Context, req models.RefundRequest) *models.RefundDecision {
	// Stage 1: resolve the order and the product within it. Any lookup
	// failure is terminal; no synthetic records are ever substituted.
	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		s.logger.Info("order not resolved, escalating",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return s.escalateUnresolved(fmt.Sprintf(
			"Order ID '%s' not found in the system. Manual verification required.", req.OrderID))
	}

	product, err := s.products.GetByOrderAndProduct(ctx, req.ProductID, req.OrderID)
	if err != nil {
		s.logger.Info("product not resolved, escalating",
			zap.String("product_id", req.ProductID),
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return s.escalateUnresolved(fmt.Sprintf(
			"Product ID '%s' not found in order '%s'.", req.ProductID, req.OrderID))
	}

	snapshot := models.ProductDetailsFrom(product)
	now := s.now()

	// Stage 2: deterministic rule chain, first match wins
	in := ruleInput{Order: order, Product: product, Snapshot: snapshot, Now: now}
	for _, rule := range s.rules {
		if decision := rule.evaluate(in); decision != nil {
			s.logger.Info("deterministic rule fired",
				zap.String("rule", rule.name),
				zap.String("order_id", order.OrderID),
				zap.String("product_id", product.ProductID),
				zap.String("decision", string(decision.Decision)))
			return decision
		}
	}

	// Stage 3: subjective reason classification
	return s.classifyReason(ctx, order, product, req.EffectiveReason(), snapshot, now)
}

// classifyReason asks the external judge about the stated reason and applies
// the mandatory post-processing. The judge's echoed product details are a
// trust boundary: they are always replaced with the resolver snapshot.
func (s *Service) classifyReason(
	ctx context.Context,
	order *models.Order,
	product *models.OrderProduct,
	reason string,
	snapshot models.ProductDetails,
	now time.Time,
) *models.RefundDecision {
	prompt, err := buildPrompt(order, product, reason, now)
	if err != nil {
		s.logger.Error("failed to build classifier prompt", zap.Error(err))
		return s.classifierFallback(snapshot)
	}

	verdict, err := s.classifier.Classify(ctx, prompt)
	if err != nil {
		s.logger.Warn("reason classification failed, escalating",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", product.ProductID),
			zap.Error(err))
		return s.classifierFallback(snapshot)
	}

	decision := &models.RefundDecision{
		Decision:       verdict.Decision,
		Confidence:     verdict.Confidence,
		ProductDetails: snapshot,
		Reasons:        verdict.Reasons,
	}
	if decision.Decision == models.DecisionApprove {
		decision.Reasons = nil
	}

	s.logger.Info("reason classified",
		zap.String("order_id", order.OrderID),
		zap.String("product_id", product.ProductID),
		zap.String("decision", string(decision.Decision)),
		zap.Float64("confidence", decision.Confidence))

	return decision
}

// escalateUnresolved builds the terminal decision for an unresolved record
func (s *Service) escalateUnresolved(reason string) *models.RefundDecision {
	return &models.RefundDecision{
		Decision:       models.DecisionEscalate,
		Confidence:     s.policy.RuleConfidence,
		ProductDetails: models.UnknownProductDetails(),
		Reasons:        []string{reason},
	}
}

// classifierFallback builds the reduced-confidence escalation used whenever
// the judge cannot produce a usable verdict
func (s *Service) classifierFallback(snapshot models.ProductDetails) *models.RefundDecision {
	return &models.RefundDecision{
		Decision:       models.DecisionEscalate,
		Confidence:     s.policy.FallbackConfidence,
		ProductDetails: snapshot,
		Reasons:        []string{classifierUnavailableReason},
	}
}
