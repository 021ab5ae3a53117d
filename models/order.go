package models

import "time"

// Order represents a placed order as recorded by the commerce system.
// Orders are created at order placement and never mutated here.
type Order struct {
	OrderID       string    `json:"order_id" db:"order_id"`
	OrderedDate   time.Time `json:"ordered_date" db:"ordered_date"`
	DeliveredDate time.Time `json:"delivered_date" db:"delivered_date"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderProduct represents a product line within an order. The
// (ProductID, OrderID) pair is the composite key.
type OrderProduct struct {
	ProductID    string  `json:"product_id" db:"product_id"`
	OrderID      string  `json:"order_id" db:"order_id"`
	Name         string  `json:"name" db:"name"`
	Category     string  `json:"category" db:"category"`
	Price        float64 `json:"price" db:"price"`
	SaleCategory bool    `json:"sale_category" db:"sale_category"`
}

// TableName returns the table name for the OrderProduct model
func (OrderProduct) TableName() string {
	return "order_products"
}
