package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"marketplace/internal/cart"
	"marketplace/internal/order"
)

var (
	ErrCartEmpty       = errors.New("cart is empty")
	ErrNothingSelected = errors.New("no cart items selected for checkout")
	ErrStaleSelection  = errors.New("some cart items were not found")
)

// OrderEventsPublisher emits the OrderCreated event after a successful checkout.
type OrderEventsPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

// Engine converts a chosen subset of cart lines into an immutable order.
// The order insert and the cart line deletes share one transaction: either the
// order exists and the consumed lines are gone, or the cart is untouched.
type Engine struct {
	db        *sql.DB
	carts     cart.Repository
	orders    order.Repository
	publisher OrderEventsPublisher
	logger    *log.Logger
}

func NewEngine(db *sql.DB, carts cart.Repository, orders order.Repository, publisher OrderEventsPublisher, logger *log.Logger) *Engine {
	return &Engine{db: db, carts: carts, orders: orders, publisher: publisher, logger: logger}
}

// Checkout creates an order from the user's cart. A nil selection means all
// lines; a non-nil selection must match existing lines exactly. Totals commit
// to the snapshot prices on the lines, never a re-fetch of the catalog.
func (e *Engine) Checkout(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error) {
	c, err := e.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}

	eligible, err := selectLines(c.Items, itemIDs)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		BuyerID:   userID,
		Status:    order.StatusPending,
		BuyerNote: buyerNote,
	}
	eligibleIDs := make([]string, 0, len(eligible))
	for _, line := range eligible {
		subtotal := line.LineTotal()
		o.TotalAmount += subtotal
		o.Items = append(o.Items, order.Item{
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		eligibleIDs = append(eligibleIDs, line.ID)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := e.orders.CreateTx(ctx, tx, o); err != nil {
		return nil, err
	}

	deleted, err := e.carts.DeleteItemsTx(ctx, tx, eligibleIDs)
	if err != nil {
		return nil, err
	}
	// A concurrent checkout may have consumed one of the selected lines between
	// load and delete. Roll everything back rather than ship a partial order.
	if deleted != int64(len(eligibleIDs)) {
		return nil, ErrStaleSelection
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	// The order is durable at this point; a publish failure must not undo it.
	if e.publisher != nil {
		if err := e.publisher.PublishOrderCreated(ctx, o); err != nil && e.logger != nil {
			e.logger.Printf("publish OrderCreated for order %s: %v", o.ID, err)
		}
	}

	return e.hydrate(ctx, userID, o.ID)
}

// selectLines filters lines to the requested ids. Requested ids are
// de-duplicated first so a repeated id cannot satisfy the count check while a
// line is actually missing.
func selectLines(lines []cart.Item, itemIDs []string) ([]cart.Item, error) {
	if itemIDs == nil {
		return lines, nil
	}

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	if len(wanted) == 0 {
		return nil, ErrNothingSelected
	}

	eligible := make([]cart.Item, 0, len(wanted))
	for _, line := range lines {
		if wanted[line.ID] {
			eligible = append(eligible, line)
		}
	}
	// Ids not present in this user's cart look exactly like missing ids,
	// including ids that belong to someone else's cart.
	if len(eligible) != len(wanted) {
		return nil, ErrStaleSelection
	}

	return eligible, nil
}

func (e *Engine) hydrate(ctx context.Context, userID, orderID string) (*order.View, error) {
	o, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	vc, _ := order.ContextFor(o, userID)
	return order.NewView(o, vc), nil
}
