package catalog

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusSold     Status = "sold"
)

// Purchasable reports whether a product in this status can be added to a cart.
func (s Status) Purchasable() bool {
	return s == StatusActive
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Status    Status    `json:"status"`
	Images    []string  `json:"images"`
	CreatorID string    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is the slice of a product that cart and order lines embed.
type Snapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Images    []string `json:"images"`
	CreatorID string   `json:"creatorId"`
}
