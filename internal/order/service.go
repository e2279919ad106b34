package order

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrAccessDenied      = errors.New("no access to this order")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// Service resolves per-viewer visibility: who may see an order, in which
// context, and which actions that context allows.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*View, error) {
	o, vc, err := s.loadForViewer(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return NewView(o, vc), nil
}

func (s *Service) ListBuyerOrders(ctx context.Context, userID string) ([]*View, error) {
	orders, err := s.repo.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return viewsFor(orders, userID), nil
}

func (s *Service) ListSales(ctx context.Context, userID string) ([]*View, error) {
	orders, err := s.repo.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	return viewsFor(orders, userID), nil
}

// UpdateStatus applies a transition iff the viewer's allowed actions at the
// current status include the action that the transition maps to.
func (s *Service) UpdateStatus(ctx context.Context, userID, orderID string, next Status) (*View, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	o, vc, err := s.loadForViewer(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	action, ok := transitionAction(o.Status, next)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	if !containsAction(AllowedActions(vc, o.Status), action) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, userID, orderID)
}

// AddActivity appends a note to the order's history, participants only.
func (s *Service) AddActivity(ctx context.Context, userID, orderID, message string) (*View, error) {
	if _, _, err := s.loadForViewer(ctx, userID, orderID); err != nil {
		return nil, err
	}

	if _, err := s.repo.AddActivity(ctx, orderID, userID, message); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, userID, orderID)
}

func (s *Service) loadForViewer(ctx context.Context, userID, orderID string) (*Order, ViewerContext, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	vc, ok := ContextFor(o, userID)
	if !ok {
		return nil, "", ErrAccessDenied
	}
	return o, vc, nil
}

func viewsFor(orders []Order, userID string) []*View {
	views := make([]*View, 0, len(orders))
	for i := range orders {
		// Lists are already scoped to the viewer, so a context always exists.
		vc, _ := ContextFor(&orders[i], userID)
		views = append(views, NewView(&orders[i], vc))
	}
	return views
}
