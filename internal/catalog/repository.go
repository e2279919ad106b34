package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("product not found")

// Repository is the read side of the product catalog. The catalog itself is
// owned by another part of the system; the cart only needs price/status/owner
// snapshots at mutation time.
type Repository interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	Put(ctx context.Context, p *Product) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, status, images, creator_id, created_at, updated_at
         FROM products WHERE id = $1`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Status, pq.Array(&p.Images), &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

// Put upserts a product record. Used for seeding in local development and
// integration tests; production writes go through the catalog owner.
func (r *repo) Put(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, name, price, status, images, creator_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, price = EXCLUDED.price, status = EXCLUDED.status,
    images = EXCLUDED.images, creator_id = EXCLUDED.creator_id, updated_at = NOW()
`, p.ID, p.Name, p.Price, p.Status, pq.Array(p.Images), p.CreatorID)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}
