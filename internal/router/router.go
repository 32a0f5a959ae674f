package router

import (
	"net/http"
	"strings"

	"lastcall/internal/handler"
	"lastcall/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	offerHandler *handler.OfferHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	vendorHandler *handler.VendorHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Offer handler function
	offerRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/offers" || r.URL.Path == "/api/offers/" {
			offerHandler.GetAll(w, r)
			return
		}
		// Watch sub-resource: /api/offers/{id}/watch
		if strings.HasSuffix(r.URL.Path, "/watch") {
			offerHandler.Watch(w, r)
			return
		}
		offerHandler.GetByID(w, r)
	}

	// Register offer routes (both with and without trailing slash)
	mux.HandleFunc("/api/offers", offerRouteHandler)
	mux.HandleFunc("/api/offers/", offerRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/" {
			cartHandler.Get(w, r)
			return
		}

		if r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/" {
			cartHandler.AddItem(w, r)
			return
		}

		// Per-line sub-resource: /api/cart/items/{offerId}
		if strings.HasPrefix(r.URL.Path, "/api/cart/items/") {
			switch r.Method {
			case http.MethodPut:
				cartHandler.SetQuantity(w, r)
			case http.MethodDelete:
				cartHandler.RemoveItem(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register cart routes (both with and without trailing slash)
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	mux.HandleFunc("/api/checkout", checkoutHandler.Checkout)
	mux.HandleFunc("/api/orders", checkoutHandler.ListOrders)

	// Vendor boundary: availability flag and schedule edit
	vendorRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/vendor/offers/") &&
			strings.HasSuffix(r.URL.Path, "/availability") {
			vendorHandler.SetAvailability(w, r)
			return
		}

		if strings.HasSuffix(r.URL.Path, "/schedule") {
			vendorHandler.UpdateSchedule(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/vendor/", vendorRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
