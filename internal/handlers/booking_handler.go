package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/dto"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/httpresp"
	"github.com/barbierimoderni/booking-api/internal/middleware"
	"github.com/barbierimoderni/booking-api/internal/models"
	bookinguc "github.com/barbierimoderni/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	repo     bookingdomain.Repository
	confirm  *bookinguc.ConfirmBooking
	complete *bookinguc.CompleteBooking
	cancel   *bookinguc.CancelBooking
	move     *bookinguc.MoveBooking
	purge    *bookinguc.PurgeCancelled
}

func NewBookingHandler(
	repo bookingdomain.Repository,
	confirm *bookinguc.ConfirmBooking,
	complete *bookinguc.CompleteBooking,
	cancel *bookinguc.CancelBooking,
	move *bookinguc.MoveBooking,
	purge *bookinguc.PurgeCancelled,
) *BookingHandler {
	return &BookingHandler{
		repo:     repo,
		confirm:  confirm,
		complete: complete,
		cancel:   cancel,
		move:     move,
		purge:    purge,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// UpdateBookingRequest carries either a status transition or a reschedule.
// status and date/time are mutually exclusive; swap_with only makes sense
// alongside a reschedule.
type UpdateBookingRequest struct {
	Status string `json:"status"`

	Date     string `json:"date"`
	Time     string `json:"time"`
	SwapWith uint   `json:"swap_with"`
}

// ======================================================
// HELPERS
// ======================================================

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func actorID(c *gin.Context) *uint {
	v, ok := c.Get(middleware.ContextBarberID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func toListDTO(rows []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			PublicCode:   b.PublicCode,
			Date:         b.Date,
			Time:         b.Time,
			DurationMin:  b.DurationMin,
			Status:       b.Status,
			CustomerName: b.CustomerName,
			ServiceName:  b.ServiceName,
		})
	}
	return out
}

// ======================================================
// LISTINGS
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	rows, err := h.repo.ListBookingsByDate(c.Request.Context(), barberID, c.Query("date"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, toListDTO(rows))
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Expected numeric year and month 1-12.")
		return
	}

	rows, err := h.repo.ListBookingsByMonth(c.Request.Context(), barberID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, toListDTO(rows))
}

func (h *BookingHandler) GetByCode(c *gin.Context) {
	b, err := h.repo.GetBookingByPublicCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// UPDATE (status transition or reschedule)
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	actor := actorID(c)

	if req.Status != "" {
		h.transition(c, id, req.Status, actor)
		return
	}

	if req.Date == "" && req.Time == "" && req.SwapWith == 0 {
		httperr.BadRequest(c, "invalid_request", "Nothing to update.")
		return
	}

	moved, err := h.move.Execute(c.Request.Context(), bookinguc.MoveBookingInput{
		BookingID:  id,
		NewDate:    req.Date,
		NewTime:    req.Time,
		SwapWithID: req.SwapWith,
		ActorID:    actor,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, moved)
}

func (h *BookingHandler) transition(c *gin.Context, id uint, status string, actor *uint) {
	var (
		b   *models.Booking
		err error
	)

	switch bookingdomain.Status(status) {
	case bookingdomain.StatusConfirmed:
		b, err = h.confirm.Execute(c.Request.Context(), id, actor)
	case bookingdomain.StatusCompleted:
		b, err = h.complete.Execute(c.Request.Context(), id, actor)
	case bookingdomain.StatusCancelled:
		b, err = h.cancel.Execute(c.Request.Context(), id, actor)
	default:
		httperr.BadRequest(c, "invalid_status", "Unknown target status.")
		return
	}

	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// PURGE
// ======================================================

func (h *BookingHandler) Purge(c *gin.Context) {
	purged, err := h.purge.Execute(c.Request.Context(), c.Query("before"), actorID(c))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"purged": purged})
}
