package cart

import (
	"time"

	"marketplace/internal/catalog"
)

type Cart struct {
	ID        string    `json:"cartId"`
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is one cart line. SellerID and UnitPrice are snapshots of the product's
// owner and price taken when the line was last touched, not live catalog data.
type Item struct {
	ID        string            `json:"id"`
	CartID    string            `json:"cartId"`
	ProductID string            `json:"productId"`
	SellerID  string            `json:"sellerId"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unitPrice"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Product   *catalog.Snapshot `json:"product,omitempty"`
}

func (it Item) LineTotal() float64 {
	return float64(it.Quantity) * it.UnitPrice
}
