package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"lastcall/internal/model"
	"lastcall/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests. Customer identity comes
// from the X-Customer-ID header; authentication itself happens upstream.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// customerID extracts the customer identity from the request headers.
func customerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Customer-ID"))
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), customer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests. Adding an offer already in
// the cart merges into the existing line by incrementing its quantity.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	var req model.CartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	line, err := h.service.AddLine(r.Context(), customer, &req)
	if err != nil {
		switch err {
		case model.ErrInvalidQuantity:
			writeError(w, http.StatusBadRequest, "invalid quantity", h.logger)
		case model.ErrOfferNotFound:
			writeError(w, http.StatusNotFound, "offer not found", h.logger)
		case model.ErrOfferUnavailable:
			writeError(w, http.StatusConflict, "offer is no longer available", h.logger)
		default:
			if strings.Contains(err.Error(), "required") {
				writeError(w, http.StatusBadRequest, err.Error(), h.logger)
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to add cart item", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusCreated, line)
}

// SetQuantity handles PUT /api/cart/items/{offerId} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	offerID := cartItemIDFromPath(r.URL.Path)
	if offerID == "" {
		writeError(w, http.StatusBadRequest, "offer ID is required", h.logger)
		return
	}

	var req model.CartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	line, err := h.service.SetQuantity(r.Context(), customer, offerID, req.Quantity)
	if err != nil {
		switch err {
		case model.ErrInvalidQuantity:
			writeError(w, http.StatusBadRequest, "invalid quantity", h.logger)
		case model.ErrLineNotFound:
			writeError(w, http.StatusNotFound, "cart line not found", h.logger)
		default:
			writeError(w, http.StatusInternalServerError, "failed to update cart item", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// RemoveItem handles DELETE /api/cart/items/{offerId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	offerID := cartItemIDFromPath(r.URL.Path)
	if offerID == "" {
		writeError(w, http.StatusBadRequest, "offer ID is required", h.logger)
		return
	}

	if err := h.service.RemoveLine(r.Context(), customer, offerID); err != nil {
		if err == model.ErrLineNotFound {
			writeError(w, http.StatusNotFound, "cart line not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove cart item", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// cartItemIDFromPath extracts the offer ID from /api/cart/items/{offerId}.
func cartItemIDFromPath(path string) string {
	const prefix = "/api/cart/items/"
	if len(path) <= len(prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}
