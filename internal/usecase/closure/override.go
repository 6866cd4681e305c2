package closure

import (
	"context"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type SaveOverrideInput struct {
	BarberRef string
	Date      string
	DayOff    bool

	AvailableSlots   []string
	UnavailableSlots []string

	ActorID *uint
}

// SaveOverride upserts a per-date schedule exception for one barber. An
// override replaces the weekday template wholesale: dayOff empties the day,
// otherwise the day becomes AvailableSlots minus UnavailableSlots.
type SaveOverride struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSaveOverride(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *SaveOverride {
	return &SaveOverride{repo: repo, audit: auditDispatcher}
}

func (uc *SaveOverride) Execute(
	ctx context.Context,
	in SaveOverrideInput,
) (*models.BarberSchedule, error) {

	if !domain.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	// Overrides are per-barber; there is no shop-wide exception row.
	if in.BarberRef == ShopRef {
		return nil, httperr.ErrBusiness("barber_not_found")
	}
	for _, group := range [][]string{in.AvailableSlots, in.UnavailableSlots} {
		for _, slot := range group {
			if !domain.IsValidSlot(slot) {
				return nil, httperr.ErrBusiness("invalid_time")
			}
		}
	}

	barberID, err := resolveBarberRef(ctx, uc.repo, in.BarberRef)
	if err != nil {
		return nil, err
	}

	override := &models.BarberSchedule{
		BarberID:         barberID,
		Date:             in.Date,
		DayOff:           in.DayOff,
		AvailableSlots:   in.AvailableSlots,
		UnavailableSlots: in.UnavailableSlots,
	}

	if err := uc.repo.SaveOverride(ctx, override); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "schedule_override_saved",
		Entity:   "barber_schedule",
		EntityID: &override.ID,
		Metadata: map[string]any{
			"barber":  in.BarberRef,
			"date":    in.Date,
			"day_off": in.DayOff,
		},
	})

	return override, nil
}
