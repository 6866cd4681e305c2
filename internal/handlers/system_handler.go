package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barbierimoderni/booking-api/internal/config"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/httpresp"
	"github.com/barbierimoderni/booking-api/internal/usecase/dailyjob"
)

// SystemHandler exposes maintenance entry points. The daily update is also
// runnable as a standalone command; this endpoint exists for manual reruns.
type SystemHandler struct {
	daily  *dailyjob.DailyUpdate
	config *config.Config
}

func NewSystemHandler(daily *dailyjob.DailyUpdate, cfg *config.Config) *SystemHandler {
	return &SystemHandler{daily: daily, config: cfg}
}

func (h *SystemHandler) RunDailyUpdate(c *gin.Context) {
	res, err := h.daily.Execute(c.Request.Context(), time.Now(), h.config.DailyUpdateHorizonDays)
	if err != nil {
		httperr.Internal(c, "daily_update_failed", "Daily update did not complete.")
		return
	}

	httpresp.OK(c, gin.H{
		"closures_created": res.ClosuresCreated,
		"offers_expired":   res.OffersExpired,
	})
}
