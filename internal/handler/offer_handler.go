package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lastcall/internal/model"
	"lastcall/internal/service"

	"github.com/rs/zerolog"
)

// OfferHandler handles offer-related HTTP requests.
type OfferHandler struct {
	service service.OfferService
	logger  zerolog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(service service.OfferService, logger zerolog.Logger) *OfferHandler {
	return &OfferHandler{
		service: service,
		logger:  logger.With().Str("handler", "offer").Logger(),
	}
}

// GetAll handles GET /api/offers requests with pagination.
func (h *OfferHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Parse query parameters
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 10 // default
	if limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0 // default
	if offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset parameter", h.logger)
			return
		}
	}

	offers, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve offers", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// GetByID handles GET /api/offers/{id} requests.
func (h *OfferHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	offerID := offerIDFromPath(r.URL.Path)
	if offerID == "" {
		writeError(w, http.StatusBadRequest, "offer ID is required", h.logger)
		return
	}

	offer, err := h.service.GetByID(r.Context(), offerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve offer", h.logger)
		return
	}

	if offer == nil {
		writeError(w, http.StatusNotFound, "offer not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// Watch handles GET /api/offers/{id}/watch requests. It streams the offer's
// availability as server-sent events for the duration of the view session:
// one initial verdict, then at most one "no longer available" event. The
// stream stays open until the client disconnects.
func (h *OfferHandler) Watch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	offerID := offerIDFromPath(strings.TrimSuffix(r.URL.Path, "/watch"))
	if offerID == "" {
		writeError(w, http.StatusBadRequest, "offer ID is required", h.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", h.logger)
		return
	}

	monitor, err := h.service.Watch(r.Context(), offerID)
	if err != nil {
		if err == model.ErrOfferNotFound {
			writeError(w, http.StatusNotFound, "offer not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to watch offer", h.logger)
		return
	}
	defer monitor.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case update, ok := <-monitor.Updates():
			if !ok {
				return
			}
			payload, err := json.Marshal(update)
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to marshal availability update")
				return
			}
			fmt.Fprintf(w, "event: availability\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// offerIDFromPath extracts the offer ID from /api/offers/{id}.
func offerIDFromPath(path string) string {
	const prefix = "/api/offers/"
	if len(path) <= len(prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}
