package order

import "time"

// View is the order response shape. ViewerContext and AllowedActions depend on
// who is asking and are filled in by the access layer.
type View struct {
	ID             string        `json:"id"`
	BuyerID        string        `json:"buyerId"`
	Status         Status        `json:"status"`
	TotalAmount    float64       `json:"totalAmount"`
	BuyerNote      string        `json:"buyerNote,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Items          []Item        `json:"items"`
	Activities     []Activity    `json:"activities"`
	ViewerContext  ViewerContext `json:"viewerContext,omitempty"`
	AllowedActions []Action      `json:"allowedActions"`
}

// NewView builds the order view for a given viewer context.
func NewView(o *Order, vc ViewerContext) *View {
	v := &View{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		Status:         o.Status,
		TotalAmount:    o.TotalAmount,
		BuyerNote:      o.BuyerNote,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Items:          o.Items,
		Activities:     o.Activities,
		ViewerContext:  vc,
		AllowedActions: AllowedActions(vc, o.Status),
	}
	if v.Items == nil {
		v.Items = []Item{}
	}
	if v.Activities == nil {
		v.Activities = []Activity{}
	}
	return v
}
