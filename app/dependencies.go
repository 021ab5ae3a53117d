package app

import (
	"context"
	"fmt"

	"github.com/upb/refund-checker/config"
	"github.com/upb/refund-checker/repositories"
	"github.com/upb/refund-checker/repositories/postgres"
	"github.com/upb/refund-checker/services/classifier"
	"github.com/upb/refund-checker/services/refund"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Orders   repositories.OrderRepository
	Products repositories.ProductRepository

	// External collaborators
	Classifier *classifier.MistralAdapter

	// Services
	RefundService *refund.Service
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.Orders = postgres.NewOrderRepository(deps.DB, logger)
	deps.Products = postgres.NewProductRepository(deps.DB, logger)
	logger.Info("repositories initialized")

	// Initialize the reason classifier
	deps.Classifier = classifier.NewMistralAdapter(cfg.Classifier, logger)
	if deps.ClassifierConfigured() {
		logger.Info("reason classifier configured")
	} else {
		logger.Warn("reason classifier not configured, pass-through cases will escalate")
	}

	// Initialize the refund evaluation service
	deps.RefundService = refund.NewService(deps.Orders, deps.Products, deps.Classifier, cfg.Policy, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and bootstraps the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClassifierConfigured reports whether classifier credentials are present
func (d *Dependencies) ClassifierConfigured() bool {
	return d.Config.Classifier.APIKey != "" && d.Config.Classifier.AgentID != ""
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
