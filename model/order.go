package model

import "time"

type Order struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderRow is an order joined with its owning user, as read from the
// database. The order repository returns rows; the order service enriches
// them with catalog data into OrderRead values.
type OrderRow struct {
	ID               int
	ProductID        int
	Quantity         int
	CustomerUsername string
	CreatedAt        time.Time
}

// OrderRead is the API representation of an order, enriched with the product
// title and current price from the external catalog.
type OrderRead struct {
	ID               int       `json:"id"`
	Product          string    `json:"product"`
	Price            float64   `json:"price"`
	Quantity         int       `json:"quantity"`
	CustomerUsername string    `json:"customer_username"`
	CreatedAt        time.Time `json:"created_at"`
}
