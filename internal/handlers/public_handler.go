package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/httpresp"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
	"github.com/barbierimoderni/booking-api/internal/usecase/availability"
	bookinguc "github.com/barbierimoderni/booking-api/internal/usecase/booking"
	waitlistuc "github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

// ======================================================
// HANDLER
// ======================================================

// A customer phone may create at most phoneRateMax bookings per window.
// This rides on top of the coarser per-IP middleware budget.
const (
	phoneRateWindow = time.Hour
	phoneRateMax    = 5
)

// PublicHandler serves the unauthenticated customer-facing surface:
// barbers, services, availability and booking/waitlist creation.
type PublicHandler struct {
	schedule schedule.Repository
	bookings bookingdomain.Repository
	resolve  *availability.ResolveSlots
	batch    *availability.BatchAvailability
	create   *bookinguc.CreateBooking
	join     *waitlistuc.JoinWaitlist
	kv       kvstore.Store
}

func NewPublicHandler(
	scheduleRepo schedule.Repository,
	bookingRepo bookingdomain.Repository,
	resolve *availability.ResolveSlots,
	batch *availability.BatchAvailability,
	create *bookinguc.CreateBooking,
	join *waitlistuc.JoinWaitlist,
	kv kvstore.Store,
) *PublicHandler {
	return &PublicHandler{
		schedule: scheduleRepo,
		bookings: bookingRepo,
		resolve:  resolve,
		batch:    batch,
		create:   create,
		join:     join,
		kv:       kv,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	Notes         string `json:"notes"`
}

type JoinWaitlistRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
}

// ======================================================
// HELPERS
// ======================================================

func queryBarberID(c *gin.Context) (uint, bool) {
	raw := c.Query("barber_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// BARBERS / SERVICES
// ======================================================

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	barbers, err := h.schedule.ListActiveBarbers(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.bookings.ListActiveServices(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability answers GET ?barber_id=&date= with the resolved slot list.
// An empty list means the day is closed; a list with every slot marked
// unavailable means fully booked. Clients rely on the distinction.
func (h *PublicHandler) Availability(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	date := c.Query("date")

	slots, err := h.resolve.Execute(c.Request.Context(), barberID, date)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// AvailabilityBatch answers GET ?barber_id=&dates=d1,d2,... with one
// summary per date, for calendar rendering.
func (h *PublicHandler) AvailabilityBatch(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	raw := strings.Split(c.Query("dates"), ",")
	dates := make([]string, 0, len(raw))
	for _, d := range raw {
		d = strings.TrimSpace(d)
		if d != "" {
			dates = append(dates, d)
		}
	}

	if len(dates) == 0 || len(dates) > 62 {
		httperr.BadRequest(c, "invalid_dates", "Expected 1 to 62 comma separated dates.")
		return
	}

	summaries, err := h.batch.Execute(c.Request.Context(), barberID, dates)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, summaries)
}

// ======================================================
// BOOKING
// ======================================================

// allowPhone enforces the per-phone creation budget. The phone number is
// the only stable identity an anonymous customer has; per-IP alone lets a
// single customer behind a changing address hammer the book endpoint.
// Degrades open when the kv store is unreachable.
func (h *PublicHandler) allowPhone(c *gin.Context, phone string) bool {
	key := "ratelimit:phone:" + strings.ReplaceAll(phone, " ", "")
	n, err := h.kv.Incr(c.Request.Context(), key, phoneRateWindow)
	if err != nil {
		return true
	}
	return n <= phoneRateMax
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !h.allowPhone(c, req.CustomerPhone) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
		return
	}

	created, err := h.create.Execute(c.Request.Context(), bookinguc.CreateBookingInput{
		BarberID:      req.BarberID,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		Time:          req.Time,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, created)
}

// ======================================================
// WAITLIST
// ======================================================

func (h *PublicHandler) JoinWaitlist(c *gin.Context) {
	var req JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	entry, err := h.join.Execute(c.Request.Context(), waitlistuc.JoinWaitlistInput{
		BarberID:      req.BarberID,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, entry)
}
