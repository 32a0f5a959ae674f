package handler

import (
	"net/http"

	"lastcall/internal/model"
	"lastcall/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout and order-lookup HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout requests. The response status encodes
// the outcome: 201 when the order committed, 409 when stale cart lines were
// removed and the customer must review the revised cart, 400 when the cart
// was empty. The outcome is repeated in the body either way.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	result, err := h.service.Checkout(r.Context(), customer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check out", h.logger)
		return
	}

	switch result.Outcome {
	case model.CheckoutCommitted:
		writeJSON(w, http.StatusCreated, result)
	case model.CheckoutInvalidated:
		writeJSON(w, http.StatusConflict, result)
	default:
		writeJSON(w, http.StatusBadRequest, result)
	}
}

// ListOrders handles GET /api/orders requests.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customer := customerID(r)
	if customer == "" {
		writeError(w, http.StatusBadRequest, "X-Customer-ID header is required", h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), customer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
