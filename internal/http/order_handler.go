package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"marketplace/internal/order"
)

type OrderService interface {
	GetOrder(ctx context.Context, userID, orderID string) (*order.View, error)
	ListBuyerOrders(ctx context.Context, userID string) ([]*order.View, error)
	ListSales(ctx context.Context, userID string) ([]*order.View, error)
	UpdateStatus(ctx context.Context, userID, orderID string, next order.Status) (*order.View, error)
	AddActivity(ctx context.Context, userID, orderID, message string) (*order.View, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	orderID := r.PathValue("orderId")
	if userID == "" || orderID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.orders.GetOrder(ctx, userID, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *OrderHandler) ListBuyerOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.orders.ListBuyerOrders(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if views == nil {
		views = []*order.View{}
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *OrderHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.orders.ListSales(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if views == nil {
		views = []*order.View{}
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	orderID := r.PathValue("orderId")
	if userID == "" || orderID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or orderId")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.orders.UpdateStatus(ctx, userID, orderID, order.Status(body.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *OrderHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	orderID := r.PathValue("orderId")
	if userID == "" || orderID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or orderId")
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Message == "" {
		writeError(w, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.orders.AddActivity(ctx, userID, orderID, body.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}
