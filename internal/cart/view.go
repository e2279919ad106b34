package cart

import (
	"time"

	"marketplace/internal/catalog"
)

// View is the cart response shape with derived totals. Every field is mapped
// explicitly from the stored entity.
type View struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
	Items       []ItemView `json:"items"`
}

type ItemView struct {
	ID        string            `json:"id"`
	ProductID string            `json:"productId"`
	SellerID  string            `json:"sellerId"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unitPrice"`
	LineTotal float64           `json:"lineTotal"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Product   *catalog.Snapshot `json:"product,omitempty"`
}

func NewView(c *Cart) *View {
	v := &View{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Items:     make([]ItemView, 0, len(c.Items)),
	}

	for _, it := range c.Items {
		v.Items = append(v.Items, ItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			SellerID:  it.SellerID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
			Product:   it.Product,
		})
		v.TotalItems += it.Quantity
		v.TotalAmount += it.LineTotal()
	}

	return v
}
