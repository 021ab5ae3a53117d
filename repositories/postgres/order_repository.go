package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/refund-checker/models"
	"github.com/upb/refund-checker/repositories"
	"go.uber.org/zap"
)

// OrderRepository implements the repositories.OrderRepository interface
type OrderRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB, logger *zap.Logger) repositories.OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an order by its order ID
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `
		SELECT order_id, ordered_date, delivered_date
		FROM orders
		WHERE order_id = $1
	`

	var order models.Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.OrderID,
		&order.OrderedDate,
		&order.DeliveredDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		r.logger.Error("failed to get order",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return &order, nil
}
