package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace/internal/cart"
	"marketplace/internal/checkout"
	"marketplace/internal/order"
)

type fakeCartService struct {
	getCart    func(ctx context.Context, userID string) (*cart.View, error)
	addItem    func(ctx context.Context, userID, productID string, quantity int) (*cart.View, error)
	updateItem func(ctx context.Context, userID, itemID string, quantity int) (*cart.View, error)
	removeItem func(ctx context.Context, userID, itemID string) (*cart.View, error)
}

func (f *fakeCartService) GetCart(ctx context.Context, userID string) (*cart.View, error) {
	return f.getCart(ctx, userID)
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.View, error) {
	return f.addItem(ctx, userID, productID, quantity)
}

func (f *fakeCartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*cart.View, error) {
	return f.updateItem(ctx, userID, itemID, quantity)
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, itemID string) (*cart.View, error) {
	return f.removeItem(ctx, userID, itemID)
}

type fakeCheckoutService struct {
	checkout func(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error)
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error) {
	return f.checkout(ctx, userID, itemIDs, buyerNote)
}

func serve(t *testing.T, carts CartService, engine CheckoutService, orders OrderService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(carts, engine, orders).ServeHTTP(rec, req)
	return rec
}

func TestGetCart_ReturnsView(t *testing.T) {
	carts := &fakeCartService{
		getCart: func(ctx context.Context, userID string) (*cart.View, error) {
			require.Equal(t, "u1", userID)
			return &cart.View{ID: "c1", UserID: userID, TotalItems: 2, TotalAmount: 20, Items: []cart.ItemView{}}, nil
		},
	}

	rec := serve(t, carts, nil, nil, http.MethodGet, "/api/users/u1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v cart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "c1", v.ID)
	require.Equal(t, 20.0, v.TotalAmount)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	carts := &fakeCartService{
		addItem: func(ctx context.Context, userID, productID string, quantity int) (*cart.View, error) {
			require.Equal(t, "p1", productID)
			require.Equal(t, 1, quantity)
			return &cart.View{ID: "c1", UserID: userID}, nil
		},
	}

	rec := serve(t, carts, nil, nil, http.MethodPost, "/api/users/u1/cart/items", `{"productId":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	rec := serve(t, &fakeCartService{}, nil, nil, http.MethodPost, "/api/users/u1/cart/items", `{"quantity":2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	rec := serve(t, &fakeCartService{}, nil, nil, http.MethodPost, "/api/users/u1/cart/items", `{"productId":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_DomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown product", cart.ErrItemNotFound, http.StatusNotFound},
		{"own product", cart.ErrOwnProduct, http.StatusBadRequest},
		{"unavailable product", cart.ErrProductUnavailable, http.StatusBadRequest},
		{"bad quantity", cart.ErrInvalidQuantity, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			carts := &fakeCartService{
				addItem: func(ctx context.Context, userID, productID string, quantity int) (*cart.View, error) {
					return nil, tc.err
				},
			}
			rec := serve(t, carts, nil, nil, http.MethodPost, "/api/users/u1/cart/items", `{"productId":"p1","quantity":1}`)
			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestUpdateItem_PassesQuantity(t *testing.T) {
	carts := &fakeCartService{
		updateItem: func(ctx context.Context, userID, itemID string, quantity int) (*cart.View, error) {
			require.Equal(t, "l1", itemID)
			require.Equal(t, 3, quantity)
			return &cart.View{ID: "c1", UserID: userID}, nil
		},
	}

	rec := serve(t, carts, nil, nil, http.MethodPatch, "/api/users/u1/cart/items/l1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoveItem_UnknownLine(t *testing.T) {
	carts := &fakeCartService{
		removeItem: func(ctx context.Context, userID, itemID string) (*cart.View, error) {
			return nil, cart.ErrItemNotFound
		},
	}

	rec := serve(t, carts, nil, nil, http.MethodDelete, "/api/users/u1/cart/items/l9", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_NoBodyMeansAllLines(t *testing.T) {
	engine := &fakeCheckoutService{
		checkout: func(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error) {
			require.Nil(t, itemIDs)
			require.Empty(t, buyerNote)
			return &order.View{ID: "o1", BuyerID: userID, Status: order.StatusPending}, nil
		},
	}

	rec := serve(t, nil, engine, nil, http.MethodPost, "/api/users/u1/cart/checkout", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var v order.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "o1", v.ID)
}

func TestCheckout_SelectionAndNoteForwarded(t *testing.T) {
	engine := &fakeCheckoutService{
		checkout: func(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error) {
			require.Equal(t, []string{"l1", "l2"}, itemIDs)
			require.Equal(t, "gift wrap please", buyerNote)
			return &order.View{ID: "o1", BuyerID: userID}, nil
		},
	}

	rec := serve(t, nil, engine, nil, http.MethodPost, "/api/users/u1/cart/checkout",
		`{"cartItemIds":["l1","l2"],"buyerNote":"gift wrap please"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckout_DomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"empty cart", checkout.ErrCartEmpty, http.StatusBadRequest},
		{"nothing selected", checkout.ErrNothingSelected, http.StatusBadRequest},
		{"stale selection", checkout.ErrStaleSelection, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &fakeCheckoutService{
				checkout: func(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error) {
					return nil, tc.err
				},
			}
			rec := serve(t, nil, engine, nil, http.MethodPost, "/api/users/u1/cart/checkout", `{"cartItemIds":[]}`)
			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := serve(t, nil, nil, nil, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}
