package closure

import (
	"context"
	"sort"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
)

type RecurringClosures struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRecurringClosures(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *RecurringClosures {
	return &RecurringClosures{repo: repo, audit: auditDispatcher}
}

func (uc *RecurringClosures) Get(
	ctx context.Context,
	barberRef string,
) ([]int, error) {

	barberID, err := resolveBarberRef(ctx, uc.repo, barberRef)
	if err != nil {
		return nil, err
	}

	return uc.repo.GetRecurringDays(ctx, barberID)
}

// Save replaces the whole closed-day set; there is no incremental patch.
func (uc *RecurringClosures) Save(
	ctx context.Context,
	barberRef string,
	days []int,
	actorID *uint,
) ([]int, error) {

	seen := make(map[int]struct{}, len(days))
	cleaned := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, httperr.ErrBusiness("invalid_weekday")
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		cleaned = append(cleaned, d)
	}
	sort.Ints(cleaned)

	barberID, err := resolveBarberRef(ctx, uc.repo, barberRef)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceRecurringDays(ctx, barberID, cleaned); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "recurring_closure_saved",
		Entity:   "recurring_closure",
		Metadata: map[string]any{"barber": barberRef, "days": cleaned},
	})

	return cleaned, nil
}
