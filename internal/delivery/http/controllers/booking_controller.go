package controllers

import (
	"log/slog"
	"net/http"

	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

// BookingRequest is the request body for POST /bookings and PUT /bookings/{id}.
type BookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

// BookingSuccessResponse is the success response envelope for a single booking.
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BookingListSuccessResponse is the success response envelope for a list of bookings.
type BookingListSuccessResponse struct {
	Data  []*domain.Booking `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BookingCount is the data of GET /bookings/count.
type BookingCount struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description The email is trimmed and lowercased; one booking per email per event.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body BookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event does not exist)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking := domain.NewBooking(req.EventID, req.Email)
	if err := c.Service.CreateBooking(r.Context(), booking); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListBookings godoc
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Param event_id query string false "Event ID"
// @Param email query string false "Attendee email"
// @Success 200 {object} controllers.BookingListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [get]
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := c.Service.ListBookings(r.Context(), domain.BookingFilter{
		EventID: q.Get("event_id"),
		Email:   q.Get("email"),
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// CountBookings godoc
// @Summary Count bookings for an event
// @Tags bookings
// @Produce json
// @Param event_id query string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.BookingCount}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/count [get]
func (c *BookingController) CountBookings(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event_id")
	n, err := c.Service.CountBookings(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BookingCount{EventID: eventID, Count: n})
}

// UpdateBooking godoc
// @Summary Change a booking
// @Description The referenced event is re-checked only when event_id changes.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID (UUID)"
// @Param booking body BookingRequest true "Booking data"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{id} [put]
func (c *BookingController) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.UpdateBooking(r.Context(), r.PathValue("id"), domain.NewBooking(req.EventID, req.Email))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}
