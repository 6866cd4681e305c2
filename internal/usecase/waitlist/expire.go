package waitlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
)

// ExpireOffers moves lapsed offers to expired and passes each freed slot to
// the next customer in line. Idempotent; safe to run from the daily batch
// and from an external timer.
type ExpireOffers struct {
	repo  domain.Repository
	store kvstore.Store
	offer *OfferNextInLine
	log   *zap.Logger
}

func NewExpireOffers(
	repo domain.Repository,
	store kvstore.Store,
	offer *OfferNextInLine,
	log *zap.Logger,
) *ExpireOffers {
	return &ExpireOffers{
		repo:  repo,
		store: store,
		offer: offer,
		log:   log,
	}
}

func (uc *ExpireOffers) Execute(
	ctx context.Context,
	now time.Time,
) (int, error) {

	lapsed, err := uc.repo.ListExpiredOffers(ctx, now)
	if err != nil {
		return 0, err
	}

	type freed struct {
		barberID uint
		date     string
	}
	seen := make(map[freed]struct{})

	for i := range lapsed {
		entry := &lapsed[i]

		entry.Status = string(domain.StatusExpired)
		if err := uc.repo.Update(ctx, entry); err != nil {
			return 0, err
		}

		if entry.OfferToken != "" {
			if err := uc.store.Delete(ctx, offerKey(entry.OfferToken)); err != nil {
				uc.log.Warn("offer key delete failed",
					zap.Uint("entry_id", entry.ID),
					zap.Error(err),
				)
			}
		}

		seen[freed{entry.BarberID, entry.Date}] = struct{}{}
	}

	// One promotion pass per (barber, date); the slot itself is unknown at
	// this point, so the next offer carries no time.
	for f := range seen {
		if err := uc.offer.Execute(ctx, f.barberID, f.date, ""); err != nil {
			uc.log.Warn("offer promotion failed",
				zap.Uint("barber_id", f.barberID),
				zap.String("date", f.date),
				zap.Error(err),
			)
		}
	}

	return len(lapsed), nil
}
