package http

import (
	"context"
	"net/http"
	"time"

	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/helpers"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController, db Pinger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler(db))

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("GET /events/{slug}/similar", eventController.ListSimilarEvents)
	mux.HandleFunc("PUT /events/{id}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{id}", eventController.DeleteEvent)

	// Bookings
	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)
	mux.HandleFunc("GET /bookings", bookingController.ListBookings)
	mux.HandleFunc("GET /bookings/count", bookingController.CountBookings)
	mux.HandleFunc("PUT /bookings/{id}", bookingController.UpdateBooking)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// healthHandler godoc
// @Summary Liveness and database reachability
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /health [get]
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db(ctx); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unreachable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
