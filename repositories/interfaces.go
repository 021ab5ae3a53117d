package repositories

import (
	"context"
	"errors"

	"github.com/upb/refund-checker/models"
)

// ErrNotFound is returned when a requested record does not exist. Callers
// decide what not-found means; the refund service converts it into an
// escalation, never an HTTP error.
var ErrNotFound = errors.New("record not found")

// OrderRepository reads order records from the canonical store
type OrderRepository interface {
	// GetByID returns the order with the given order ID, or ErrNotFound.
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
}

// ProductRepository reads order product records from the canonical store
type ProductRepository interface {
	// GetByOrderAndProduct returns the product line identified by the
	// (productID, orderID) composite key, or ErrNotFound.
	GetByOrderAndProduct(ctx context.Context, productID, orderID string) (*models.OrderProduct, error)
}
