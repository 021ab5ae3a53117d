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

// ProductRepository implements the repositories.ProductRepository interface
type ProductRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB, logger *zap.Logger) repositories.ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// GetByOrderAndProduct retrieves a product line by its composite key. The
// product must belong to the given order.
func (r *ProductRepository) GetByOrderAndProduct(ctx context.Context, productID, orderID string) (*models.OrderProduct, error) {
	query := `
		SELECT product_id, order_id, name, category, price, sale_category
		FROM order_products
		WHERE product_id = $1 AND order_id = $2
	`

	var product models.OrderProduct
	err := r.db.QueryRowContext(ctx, query, productID, orderID).Scan(
		&product.ProductID,
		&product.OrderID,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.SaleCategory,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		r.logger.Error("failed to get order product",
			zap.String("product_id", productID),
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get product %s in order %s: %w", productID, orderID, err)
	}

	return &product, nil
}
