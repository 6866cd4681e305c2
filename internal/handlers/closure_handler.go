package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/httpresp"
	closureuc "github.com/barbierimoderni/booking-api/internal/usecase/closure"
)

// ======================================================
// HANDLER
// ======================================================

// ClosureHandler manages date closures and the recurring closed-day sets.
// Barbers are addressed by email, "shop" targets the shop-wide scope.
type ClosureHandler struct {
	repo      schedule.Repository
	add       *closureuc.AddClosure
	remove    *closureuc.RemoveClosure
	recurring *closureuc.RecurringClosures
	override  *closureuc.SaveOverride
}

func NewClosureHandler(
	repo schedule.Repository,
	add *closureuc.AddClosure,
	remove *closureuc.RemoveClosure,
	recurring *closureuc.RecurringClosures,
	override *closureuc.SaveOverride,
) *ClosureHandler {
	return &ClosureHandler{
		repo:      repo,
		add:       add,
		remove:    remove,
		recurring: recurring,
		override:  override,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateClosureRequest struct {
	Barber string `json:"barber" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Type   string `json:"type" binding:"required"`
	Reason string `json:"reason"`
}

type DeleteClosureRequest struct {
	Barber string `json:"barber" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

type SaveRecurringRequest struct {
	ClosedDays []int `json:"closedDays"`
}

type SaveOverrideRequest struct {
	Date             string   `json:"date" binding:"required"`
	DayOff           bool     `json:"day_off"`
	AvailableSlots   []string `json:"available_slots"`
	UnavailableSlots []string `json:"unavailable_slots"`
}

// ======================================================
// DATE CLOSURES
// ======================================================

func (h *ClosureHandler) List(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	closures, err := h.repo.ListDateClosures(c.Request.Context(), barberID, c.Query("date"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_closures", "Could not list closures.")
		return
	}

	httpresp.List(c, closures)
}

func (h *ClosureHandler) Create(c *gin.Context) {
	var req CreateClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	created, err := h.add.Execute(c.Request.Context(), closureuc.AddClosureInput{
		BarberRef: req.Barber,
		Date:      req.Date,
		Type:      req.Type,
		Reason:    req.Reason,
		CreatedBy: "admin",
		ActorID:   actorID(c),
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, created)
}

func (h *ClosureHandler) Delete(c *gin.Context) {
	var req DeleteClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	err := h.remove.Execute(c.Request.Context(), closureuc.RemoveClosureInput{
		BarberRef: req.Barber,
		Date:      req.Date,
		Type:      req.Type,
		RemovedBy: "admin",
		ActorID:   actorID(c),
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// RECURRING CLOSED DAYS
// ======================================================

func (h *ClosureHandler) RecurringGet(c *gin.Context) {
	days, err := h.recurring.Get(c.Request.Context(), c.Param("barber"))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"closedDays": days})
}

func (h *ClosureHandler) RecurringSave(c *gin.Context) {
	var req SaveRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	days, err := h.recurring.Save(c.Request.Context(), c.Param("barber"), req.ClosedDays, actorID(c))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"closedDays": days})
}

// ======================================================
// PER-DATE OVERRIDES
// ======================================================

func (h *ClosureHandler) OverrideSave(c *gin.Context) {
	var req SaveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	override, err := h.override.Execute(c.Request.Context(), closureuc.SaveOverrideInput{
		BarberRef:        c.Param("barber"),
		Date:             req.Date,
		DayOff:           req.DayOff,
		AvailableSlots:   req.AvailableSlots,
		UnavailableSlots: req.UnavailableSlots,
		ActorID:          actorID(c),
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, override)
}
