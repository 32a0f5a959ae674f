package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"lastcall/internal/model"
	"lastcall/internal/service"

	"github.com/rs/zerolog"
)

// VendorHandler handles the vendor-side boundary: toggling an offer's
// persisted availability flag and editing a vendor's pickup-window
// descriptor. Both push a flag update so open view sessions reconcile.
type VendorHandler struct {
	service service.OfferService
	logger  zerolog.Logger
}

// NewVendorHandler creates a new vendor handler.
func NewVendorHandler(service service.OfferService, logger zerolog.Logger) *VendorHandler {
	return &VendorHandler{
		service: service,
		logger:  logger.With().Str("handler", "vendor").Logger(),
	}
}

// availabilityRequest is the payload for PATCH .../availability. The field
// is a pointer so a missing value is distinguishable from false.
type availabilityRequest struct {
	Available *bool `json:"available"`
}

// scheduleRequest is the payload for PUT .../schedule. The descriptor is
// free text; an unparseable one simply fails open downstream.
type scheduleRequest struct {
	ScheduleDescriptor string `json:"scheduleDescriptor"`
}

// SetAvailability handles PATCH /api/vendor/offers/{id}/availability.
func (h *VendorHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	offerID := vendorOfferIDFromPath(r.URL.Path)
	if offerID == "" {
		writeError(w, http.StatusBadRequest, "offer ID is required", h.logger)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required", h.logger)
		return
	}

	offer, err := h.service.SetAvailability(r.Context(), offerID, *req.Available)
	if err != nil {
		if err == model.ErrOfferNotFound {
			writeError(w, http.StatusNotFound, "offer not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update offer availability", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// UpdateSchedule handles PUT /api/vendor/{id}/schedule.
func (h *VendorHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	vendorID := vendorIDFromSchedulePath(r.URL.Path)
	if vendorID == "" {
		writeError(w, http.StatusBadRequest, "vendor ID is required", h.logger)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateVendorSchedule(r.Context(), vendorID, req.ScheduleDescriptor); err != nil {
		if err == model.ErrVendorNotFound {
			writeError(w, http.StatusNotFound, "vendor not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update vendor schedule", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// vendorOfferIDFromPath extracts the offer ID from
// /api/vendor/offers/{id}/availability.
func vendorOfferIDFromPath(path string) string {
	const prefix = "/api/vendor/offers/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := strings.TrimSuffix(path[len(prefix):], "/availability")
	return strings.Trim(rest, "/")
}

// vendorIDFromSchedulePath extracts the vendor ID from
// /api/vendor/{id}/schedule.
func vendorIDFromSchedulePath(path string) string {
	const prefix = "/api/vendor/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := strings.TrimSuffix(path[len(prefix):], "/schedule")
	return strings.Trim(rest, "/")
}
