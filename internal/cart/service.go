package cart

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/catalog"
)

var (
	ErrOwnProduct         = errors.New("cannot purchase your own product")
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// Service enforces purchase eligibility and keeps line snapshots in sync with
// the catalog at mutation time.
type Service struct {
	repo    Repository
	catalog catalog.Repository
}

func NewService(repo Repository, cat catalog.Repository) *Service {
	return &Service{repo: repo, catalog: cat}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*View, error) {
	if _, err := s.repo.EnsureCart(ctx, userID); err != nil {
		return nil, err
	}
	return s.loadView(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.CreatorID == userID {
		return nil, ErrOwnProduct
	}
	if !product.Status.Purchasable() {
		return nil, ErrProductUnavailable
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	c, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := Item{
		ProductID: product.ID,
		SellerID:  product.CreatorID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	if err := s.repo.UpsertItem(ctx, c.ID, line); err != nil {
		return nil, err
	}

	return s.loadView(ctx, userID)
}

func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*View, error) {
	item, err := s.repo.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	// Quantity zero or below means removal, not an error.
	if quantity <= 0 {
		err = s.repo.DeleteItem(ctx, item.ID)
	} else {
		err = s.repo.SetItemQuantity(ctx, item.ID, quantity)
	}
	if err != nil {
		return nil, err
	}

	return s.loadView(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*View, error) {
	item, err := s.repo.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}

	return s.loadView(ctx, userID)
}

func (s *Service) loadView(ctx context.Context, userID string) (*View, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cart missing after mutation for user %s", userID)
	}
	return NewView(c), nil
}
