package booking

import (
	"context"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
)

// PurgeCancelled is the only path that physically deletes bookings.
type PurgeCancelled struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPurgeCancelled(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *PurgeCancelled {
	return &PurgeCancelled{repo: repo, audit: auditDispatcher}
}

// Execute deletes cancelled bookings; before limits the purge to dates
// strictly earlier than it, empty means all of them.
func (uc *PurgeCancelled) Execute(
	ctx context.Context,
	before string,
	actorID *uint,
) (int64, error) {

	if before != "" && !schedule.IsValidDate(before) {
		return 0, httperr.ErrBusiness("invalid_date")
	}

	purged, err := uc.repo.PurgeCancelled(ctx, before)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "bookings_purged",
		Entity:   "booking",
		Metadata: map[string]any{"before": before, "purged": purged},
	})

	return purged, nil
}
