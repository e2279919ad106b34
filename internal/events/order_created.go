package events

import (
	"time"

	"github.com/google/uuid"

	"marketplace/internal/order"
)

const (
	orderCreatedEventName    = "OrderCreated"
	orderCreatedEventVersion = 1
	orderCreatedSchema       = "contracts/events/order/OrderCreated.v1.payload.schema.json"
)

// OrderItem is the wire shape of a single order line in event payloads.
type OrderItem struct {
	ProductID string  `json:"productId"`
	SellerID  string  `json:"sellerId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderCreatedPayload represents the v1 payload schema.
type OrderCreatedPayload struct {
	OrderID     string      `json:"orderId"`
	BuyerID     string      `json:"buyerId"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Timestamp   time.Time   `json:"timestamp"`
}

// OrderCreatedEnvelope is the enveloped event structure.
type OrderCreatedEnvelope = EventEnvelope[OrderCreatedPayload]

// BuildOrderCreatedEnvelope builds an enveloped OrderCreated event.
func BuildOrderCreatedEnvelope(o *order.Order, seq int64, meta EnvelopeMetadata) OrderCreatedEnvelope {
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}

	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			SellerID:  it.SellerID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderCreatedEnvelope{
		EventName:     orderCreatedEventName,
		EventVersion:  orderCreatedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      "marketplace",
		PartitionKey:  o.ID,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        orderCreatedSchema,
		Payload: OrderCreatedPayload{
			OrderID:     o.ID,
			BuyerID:     o.BuyerID,
			Status:      string(o.Status),
			Items:       items,
			TotalAmount: o.TotalAmount,
			Timestamp:   o.CreatedAt,
		},
	}
}
