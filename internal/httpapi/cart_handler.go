package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danjocayabyab/Furnihive-sub000/internal/cart"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	store *cart.Store
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

type AddItemRequestDTO struct {
	ProductID     string  `json:"product_id"`
	Title         string  `json:"title"`
	UnitPrice     int64   `json:"unit_price"`
	OriginalPrice int64   `json:"original_price"`
	Quantity      int     `json:"quantity"`
	StockLimit    *int    `json:"stock_limit,omitempty"`
	WeightKg      float64 `json:"weight_kg"`
	SellerID      string  `json:"seller_id"`
	ImageRef      string  `json:"image_ref"`
	ColorVariant  string  `json:"color_variant"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Owner    string            `json:"owner"`
	Items    []domain.CartItem `json:"items"`
	Subtotal int64             `json:"subtotal"`
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	return CartResponseDTO{
		Owner:    h.store.Identity().Key(),
		Items:    h.store.Items(),
		Subtotal: h.store.Subtotal(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	// a non-positive quantity is malformed input; anything above the item's
	// stock limit is clamped by the store, never rejected
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	h.store.Add(domain.CartItem{
		ProductID:     req.ProductID,
		Title:         req.Title,
		UnitPrice:     req.UnitPrice,
		OriginalPrice: req.OriginalPrice,
		StockLimit:    req.StockLimit,
		WeightKg:      req.WeightKg,
		SellerID:      req.SellerID,
		ImageRef:      req.ImageRef,
		ColorVariant:  req.ColorVariant,
	}, req.Quantity)

	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	if err := h.store.SetQuantity(productID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.store.Remove(productID); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	respondJSON(w, http.StatusOK, h.cartResponse())
}
