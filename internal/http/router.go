package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace/internal/cart"
	"marketplace/internal/catalog"
	"marketplace/internal/checkout"
	"marketplace/internal/order"
)

func NewRouter(carts CartService, engine CheckoutService, orders OrderService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	ch := NewCartHandler(carts, engine)
	mux.HandleFunc("GET /api/users/{userId}/cart", ch.GetCart)
	mux.HandleFunc("POST /api/users/{userId}/cart/items", ch.AddItem)
	mux.HandleFunc("PATCH /api/users/{userId}/cart/items/{itemId}", ch.UpdateItem)
	mux.HandleFunc("DELETE /api/users/{userId}/cart/items/{itemId}", ch.RemoveItem)
	mux.HandleFunc("POST /api/users/{userId}/cart/checkout", ch.Checkout)

	oh := NewOrderHandler(orders)
	mux.HandleFunc("GET /api/users/{userId}/orders", oh.ListBuyerOrders)
	mux.HandleFunc("GET /api/users/{userId}/sales", oh.ListSales)
	mux.HandleFunc("GET /api/users/{userId}/orders/{orderId}", oh.GetOrder)
	mux.HandleFunc("POST /api/users/{userId}/orders/{orderId}/status", oh.UpdateStatus)
	mux.HandleFunc("POST /api/users/{userId}/orders/{orderId}/activities", oh.AddActivity)

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "marketplace",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinels onto HTTP status codes. Anything not
// in the taxonomy is a 500 with a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrOwnProduct),
		errors.Is(err, cart.ErrProductUnavailable),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrCartEmpty),
		errors.Is(err, checkout.ErrNothingSelected),
		errors.Is(err, checkout.ErrStaleSelection),
		errors.Is(err, order.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
