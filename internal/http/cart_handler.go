package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"marketplace/internal/cart"
	"marketplace/internal/order"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*cart.View, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.View, error)
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*cart.View, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*cart.View, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, itemIDs []string, buyerNote string) (*order.View, error)
}

type CartHandler struct {
	carts  CartService
	engine CheckoutService
}

func NewCartHandler(carts CartService, engine CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, engine: engine}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	// Quantity defaults to 1 when omitted; an explicit zero is still rejected
	// by the service.
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.carts.AddItem(ctx, userID, body.ProductID, quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	itemID := r.PathValue("itemId")
	if userID == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or itemId")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.carts.UpdateItem(ctx, userID, itemID, body.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	itemID := r.PathValue("itemId")
	if userID == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or itemId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.carts.RemoveItem(ctx, userID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	var body struct {
		CartItemIDs []string `json:"cartItemIds"`
		BuyerNote   string   `json:"buyerNote"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	v, err := h.engine.Checkout(ctx, userID, body.CartItemIDs, body.BuyerNote)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}
