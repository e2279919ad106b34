package order

import (
	"time"

	"marketplace/internal/catalog"
)

type Order struct {
	ID          string     `json:"orderId"`
	BuyerID     string     `json:"buyerId"`
	Status      Status     `json:"status"`
	TotalAmount float64    `json:"totalAmount"`
	BuyerNote   string     `json:"buyerNote,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Items       []Item     `json:"items"`
	Activities  []Activity `json:"activities,omitempty"`
}

// Item is immutable after creation. Quantity, UnitPrice and SellerID are copied
// from the cart line at checkout; Subtotal is computed once and never recomputed.
type Item struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"orderId"`
	ProductID string            `json:"productId"`
	SellerID  string            `json:"sellerId"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unitPrice"`
	Subtotal  float64           `json:"subtotal"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Product   *catalog.Snapshot `json:"product,omitempty"`
}

// Activity is an append-only note on an order, authored by a participant.
type Activity struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	AuthorID  string    `json:"authorId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
