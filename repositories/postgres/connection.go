package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/refund-checker/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema. Orders and their product lines
// are written by the commerce system; this service only reads them, but
// owning the schema keeps local and CI environments bootstrappable.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Orders table
		CREATE TABLE IF NOT EXISTS orders (
			order_id VARCHAR(64) PRIMARY KEY,
			ordered_date DATE NOT NULL,
			delivered_date DATE NOT NULL
		);

		-- Order product lines table
		CREATE TABLE IF NOT EXISTS order_products (
			product_id VARCHAR(64) NOT NULL,
			order_id VARCHAR(64) NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			price DECIMAL(12, 2) NOT NULL CHECK (price >= 0),
			sale_category BOOLEAN NOT NULL DEFAULT false,
			PRIMARY KEY (product_id, order_id)
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_order_products_order_id ON order_products(order_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
