package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/barbierimoderni/booking-api/internal/httperr"
)

// ======================================================
// BUSINESS ERROR -> HTTP
// ======================================================

var businessMessages = map[string]string{
	"invalid_date":         "Invalid date. Expected YYYY-MM-DD.",
	"invalid_time":         "Invalid time. Expected HH:MM in 30 minute steps.",
	"invalid_weekday":      "Invalid weekday. Expected 0 (Sunday) to 6 (Saturday).",
	"invalid_closure_type": "Invalid closure type.",
	"invalid_customer":     "Customer name and phone are required.",
	"invalid_email":        "Invalid e-mail address.",
	"invalid_state":        "The booking is not in a state that allows this change.",
	"invalid_swap":         "A booking cannot be swapped with itself.",
	"barber_not_found":     "Barber not found.",
	"service_not_found":    "Service not found.",
	"booking_not_found":    "Booking not found.",
	"closure_not_found":    "Closure not found.",
	"slot_not_available":   "The requested slot does not exist on that day.",
	"time_conflict":        "The requested slot is already taken.",
	"closure_exists":       "A closure of that type already exists for this date.",
}

// writeBusinessError translates a use case error into the HTTP surface.
// Unknown errors become a 500 without leaking internals.
func writeBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	msg := businessMessages[be.Code]
	if msg == "" {
		msg = "Request could not be processed."
	}

	switch be.Code {
	case "time_conflict", "closure_exists":
		httperr.Conflict(c, be.Code, msg)
	case "barber_not_found", "service_not_found", "booking_not_found", "closure_not_found":
		httperr.NotFound(c, be.Code, msg)
	default:
		httperr.BadRequest(c, be.Code, msg)
	}
}
