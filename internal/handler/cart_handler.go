package handler

import (
	"encoding/json"
	"net/http"

	"github.com/NicolasArtemio/frontend-basv1/internal/cart"
	"github.com/NicolasArtemio/frontend-basv1/internal/model"
)

type CartHandler struct {
	carts *cart.Store
	// shopPhone is the WhatsApp destination the handoff link targets.
	shopPhone string
}

func NewCartHandler(carts *cart.Store, shopPhone string) *CartHandler {
	return &CartHandler{carts: carts, shopPhone: shopPhone}
}

type AddItemRequest struct {
	Product   model.Product   `json:"product"`
	PriceMode model.PriceMode `json:"price_type"`
}

type UpdateItemRequest struct {
	ProductID int             `json:"product_id"`
	PriceMode model.PriceMode `json:"price_type"`
	Delta     int             `json:"delta"` // ignored on remove
}

type CartResponse struct {
	Items []model.LineItem `json:"items"`
	Total float64          `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, CartResponse{Items: h.carts.Items(), Total: h.carts.Total()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.PriceMode.Valid() {
		http.Error(w, "invalid price mode", http.StatusBadRequest)
		return
	}

	h.carts.AddItem(r.Context(), req.Product, req.PriceMode)
	writeJSON(w, CartResponse{Items: h.carts.Items(), Total: h.carts.Total()})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.carts.RemoveItem(r.Context(), req.ProductID, req.PriceMode)
	writeJSON(w, CartResponse{Items: h.carts.Items(), Total: h.carts.Total()})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.carts.UpdateQuantity(r.Context(), req.ProductID, req.PriceMode, req.Delta)
	writeJSON(w, CartResponse{Items: h.carts.Items(), Total: h.carts.Total()})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(r.Context())
	writeJSON(w, CartResponse{Items: h.carts.Items(), Total: 0})
}

// HandoffLink returns the WhatsApp link for the current order, or 409
// when there is nothing to hand off.
func (h *CartHandler) HandoffLink(w http.ResponseWriter, r *http.Request) {
	link := h.carts.DeepLink(h.shopPhone)
	if link == "" {
		http.Error(w, "cart is empty", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]string{"link": link})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
