package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"marketplace/internal/catalog"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	// CreateTx inserts the order and its items inside the caller's transaction.
	// Assigns ids and timestamps on the passed entities.
	CreateTx(ctx context.Context, tx *sql.Tx, o *Order) error
	// GetByID loads the order with items (joined to product snapshots) and its
	// activity history. Returns ErrNotFound when no such order exists.
	GetByID(ctx context.Context, orderID string) (*Order, error)
	// ListByBuyer returns the user's purchases, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	// ListBySeller returns orders containing at least one of the seller's items,
	// newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	AddActivity(ctx context.Context, orderID, authorID, message string) (*Activity, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) CreateTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	var note sql.NullString
	if o.BuyerNote != "" {
		note = sql.NullString{String: o.BuyerNote, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, buyer_id, status, total_amount, buyer_note, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.BuyerID, o.Status, o.TotalAmount, note, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID
		it.CreatedAt = now
		it.UpdatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, seller_id, quantity, unit_price, subtotal, created_at, updated_at)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.OrderID, it.ProductID, it.SellerID, it.Quantity, it.UnitPrice, it.Subtotal, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return nil
}

const orderSelect = `
SELECT o.id, o.buyer_id, o.status, o.total_amount, o.buyer_note, o.created_at, o.updated_at,
       oi.id, oi.product_id, oi.seller_id, oi.quantity, oi.unit_price, oi.subtotal,
       oi.created_at, oi.updated_at,
       p.name, p.price, p.images, p.creator_id
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
LEFT JOIN products p ON p.id = oi.product_id
`

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+`WHERE o.id = $1 ORDER BY oi.created_at, oi.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}

	o := &orders[0]
	if o.Activities, err = r.listActivities(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+`WHERE o.buyer_id = $1 ORDER BY o.created_at DESC, o.id, oi.created_at, oi.id`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *repo) ListBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+`WHERE EXISTS (
    SELECT 1 FROM order_items s WHERE s.order_id = o.id AND s.seller_id = $1
) ORDER BY o.created_at DESC, o.id, oi.created_at, oi.id`,
		sellerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	return collectOrders(rows)
}

func (r *repo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		orderID, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) AddActivity(ctx context.Context, orderID, authorID, message string) (*Activity, error) {
	a := Activity{
		ID:       uuid.NewString(),
		OrderID:  orderID,
		AuthorID: authorID,
		Message:  message,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO order_activities (id, order_id, author_id, message, created_at)
         VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		a.ID, a.OrderID, a.AuthorID, a.Message,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order_activity: %w", err)
	}
	return &a, nil
}

func (r *repo) listActivities(ctx context.Context, orderID string) ([]Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, author_id, message, created_at
         FROM order_activities WHERE order_id = $1 ORDER BY created_at, id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.OrderID, &a.AuthorID, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order_activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return activities, nil
}

// collectOrders folds the joined order/item/product rows into Order values,
// preserving row order.
func collectOrders(rows *sql.Rows) ([]Order, error) {
	defer rows.Close()

	var orders []Order
	index := make(map[string]int)

	for rows.Next() {
		var o Order
		var note sql.NullString

		var itemID, productID, sellerID sql.NullString
		var quantity sql.NullInt64
		var unitPrice, subtotal sql.NullFloat64
		var itemCreated, itemUpdated sql.NullTime

		var pName sql.NullString
		var pPrice sql.NullFloat64
		var pImages []string
		var pCreator sql.NullString

		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.Status, &o.TotalAmount, &note, &o.CreatedAt, &o.UpdatedAt,
			&itemID, &productID, &sellerID, &quantity, &unitPrice, &subtotal,
			&itemCreated, &itemUpdated,
			&pName, &pPrice, pq.Array(&pImages), &pCreator,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.BuyerNote = note.String

		i, ok := index[o.ID]
		if !ok {
			i = len(orders)
			index[o.ID] = i
			orders = append(orders, o)
		}

		if itemID.Valid {
			it := Item{
				ID:        itemID.String,
				OrderID:   o.ID,
				ProductID: productID.String,
				SellerID:  sellerID.String,
				Quantity:  int(quantity.Int64),
				UnitPrice: unitPrice.Float64,
				Subtotal:  subtotal.Float64,
				CreatedAt: itemCreated.Time,
				UpdatedAt: itemUpdated.Time,
			}
			if pName.Valid {
				it.Product = &catalog.Snapshot{
					ID:        productID.String,
					Name:      pName.String,
					Price:     pPrice.Float64,
					Images:    pImages,
					CreatorID: pCreator.String,
				}
			}
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return orders, nil
}
