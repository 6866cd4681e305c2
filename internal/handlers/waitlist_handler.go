package handlers

import (
	"github.com/gin-gonic/gin"

	waitlistdomain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/httpresp"
)

type WaitlistHandler struct {
	repo waitlistdomain.Repository
}

func NewWaitlistHandler(repo waitlistdomain.Repository) *WaitlistHandler {
	return &WaitlistHandler{repo: repo}
}

func (h *WaitlistHandler) ListByDate(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	entries, err := h.repo.ListByDate(c.Request.Context(), barberID, c.Query("date"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_waitlist", "Could not list waitlist entries.")
		return
	}

	httpresp.List(c, entries)
}
