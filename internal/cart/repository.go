package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"marketplace/internal/catalog"
)

var ErrItemNotFound = errors.New("cart item not found")

type Repository interface {
	// EnsureCart returns the user's cart, creating it if absent. Safe under
	// concurrent first access: the unique index on user_id guarantees a single
	// row, losers of the insert race re-read the winner's row.
	EnsureCart(ctx context.Context, userID string) (*Cart, error)
	// GetByUser loads the cart with all lines and their product snapshots.
	// Returns nil when the user has no cart yet.
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	// UpsertItem adds a line or, when one exists for the same product,
	// increments its quantity and refreshes the price/seller snapshot.
	UpsertItem(ctx context.Context, cartID string, line Item) error
	// GetItem returns the line only when it belongs to a cart owned by userID.
	GetItem(ctx context.Context, userID, itemID string) (*Item, error)
	SetItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	// DeleteItemsTx removes the given lines inside the caller's transaction and
	// reports how many rows were actually deleted.
	DeleteItemsTx(ctx context.Context, tx *sql.Tx, itemIDs []string) (int64, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) EnsureCart(ctx context.Context, userID string) (*Cart, error) {
	c, err := r.getCartRow(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select cart: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO carts (id, user_id, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (user_id) DO NOTHING
`, uuid.NewString(), userID)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	// A concurrent insert may have won the conflict; either way the row exists now.
	c, err = r.getCartRow(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reselect cart: %w", err)
	}
	return c, nil
}

func (r *repo) getCartRow(ctx context.Context, userID string) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) GetByUser(ctx context.Context, userID string) (*Cart, error) {
	c, err := r.getCartRow(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT ci.id, ci.cart_id, ci.product_id, ci.seller_id, ci.quantity, ci.unit_price,
       ci.created_at, ci.updated_at,
       p.name, p.price, p.images, p.creator_id
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at
`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		var name sql.NullString
		var price sql.NullFloat64
		var images []string
		var creatorID sql.NullString
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.SellerID, &it.Quantity, &it.UnitPrice,
			&it.CreatedAt, &it.UpdatedAt,
			&name, &price, pq.Array(&images), &creatorID,
		); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		if name.Valid {
			it.Product = &catalog.Snapshot{
				ID:        it.ProductID,
				Name:      name.String,
				Price:     price.Float64,
				Images:    images,
				CreatorID: creatorID.String,
			}
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return c, nil
}

func (r *repo) UpsertItem(ctx context.Context, cartID string, line Item) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (id, cart_id, product_id, seller_id, quantity, unit_price, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    unit_price = EXCLUDED.unit_price,
    seller_id = EXCLUDED.seller_id,
    updated_at = NOW()
`, uuid.NewString(), cartID, line.ProductID, line.SellerID, line.Quantity, line.UnitPrice)
	if err != nil {
		return fmt.Errorf("upsert cart_item: %w", err)
	}
	return nil
}

func (r *repo) GetItem(ctx context.Context, userID, itemID string) (*Item, error) {
	var it Item
	err := r.db.QueryRowContext(ctx, `
SELECT ci.id, ci.cart_id, ci.product_id, ci.seller_id, ci.quantity, ci.unit_price,
       ci.created_at, ci.updated_at
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE ci.id = $1 AND c.user_id = $2
`, itemID, userID).Scan(
		&it.ID, &it.CartID, &it.ProductID, &it.SellerID, &it.Quantity, &it.UnitPrice,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("select cart_item: %w", err)
	}
	return &it, nil
}

func (r *repo) SetItemQuantity(ctx context.Context, itemID string, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart_item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repo) DeleteItem(ctx context.Context, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart_item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repo) DeleteItemsTx(ctx context.Context, tx *sql.Tx, itemIDs []string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ANY($1)`,
		pq.Array(itemIDs),
	)
	if err != nil {
		return 0, fmt.Errorf("delete cart_items: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
