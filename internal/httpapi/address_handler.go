package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danjocayabyab/Furnihive-sub000/internal/address"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/mirror"
	"github.com/go-chi/chi/v5"
)

type AddressHandler struct {
	resolver *address.Resolver
}

func NewAddressHandler(resolver *address.Resolver) *AddressHandler {
	return &AddressHandler{resolver: resolver}
}

type CreateAddressRequestDTO struct {
	Label   string                 `json:"label"`
	Address domain.ShippingAddress `json:"address"`
}

type RenameAddressRequestDTO struct {
	Label string `json:"label"`
}

type CreateAddressResponseDTO struct {
	ID string `json:"id"`
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	saved, err := h.resolver.List(r.Context(), identityFromContext(r.Context()))
	if err != nil {
		handleAddressError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Label == "" {
		respondError(w, http.StatusBadRequest, "invalid_label", "label is required")
		return
	}

	id, err := h.resolver.Create(r.Context(), identityFromContext(r.Context()), req.Label, req.Address)
	if err != nil {
		handleAddressError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, CreateAddressResponseDTO{ID: id})
}

func (h *AddressHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Label == "" {
		respondError(w, http.StatusBadRequest, "invalid_label", "label is required")
		return
	}

	err := h.resolver.Rename(r.Context(), identityFromContext(r.Context()), chi.URLParam(r, "addressID"), req.Label)
	if err != nil {
		handleAddressError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.resolver.SoftDelete(r.Context(), identityFromContext(r.Context()), chi.URLParam(r, "addressID"))
	if err != nil {
		handleAddressError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	err := h.resolver.SetDefault(r.Context(), identityFromContext(r.Context()), chi.URLParam(r, "addressID"))
	if err != nil {
		handleAddressError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleAddressError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, address.ErrGuestHasNoAddressBook):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, mirror.ErrAddressNotFound):
		respondError(w, http.StatusNotFound, "not_found", "address not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
