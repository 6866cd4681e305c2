package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	domain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
	"github.com/barbierimoderni/booking-api/internal/notify"
)

func offerKey(token string) string {
	return "waitlist:offer:" + token
}

// OfferNextInLine reacts to a freed slot: the top waiting entry for that
// (barber, date) becomes notified, gets an offer expiry, and is handed to
// the external push sender.
type OfferNextInLine struct {
	repo     domain.Repository
	schedule schedule.Repository
	store    kvstore.Store
	sender   notify.Sender
	offerTTL time.Duration
	log      *zap.Logger
}

func NewOfferNextInLine(
	repo domain.Repository,
	scheduleRepo schedule.Repository,
	store kvstore.Store,
	sender notify.Sender,
	offerTTL time.Duration,
	log *zap.Logger,
) *OfferNextInLine {
	return &OfferNextInLine{
		repo:     repo,
		schedule: scheduleRepo,
		store:    store,
		sender:   sender,
		offerTTL: offerTTL,
		log:      log,
	}
}

func (uc *OfferNextInLine) Execute(
	ctx context.Context,
	barberID uint,
	date string,
	freedTime string,
) error {

	entry, err := uc.repo.TopWaiting(ctx, barberID, date)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	expiresAt := time.Now().Add(uc.offerTTL)

	entry.Status = string(domain.StatusNotified)
	entry.OfferToken = uuid.NewString()
	entry.OfferExpiresAt = &expiresAt

	if err := uc.repo.Update(ctx, entry); err != nil {
		return err
	}

	// The kv entry mirrors the DB expiry so accept links can be checked
	// without a table scan. Redis being down must not block the offer.
	if err := uc.store.Set(ctx, offerKey(entry.OfferToken),
		fmt.Sprint(entry.ID), uc.offerTTL); err != nil {
		uc.log.Warn("offer key write failed",
			zap.Uint("entry_id", entry.ID),
			zap.Error(err),
		)
	}

	barberName := ""
	if barber, err := uc.schedule.GetBarberByID(ctx, barberID); err == nil {
		barberName = barber.Name
	}

	offer := notify.Offer{
		CustomerName:  entry.CustomerName,
		CustomerPhone: entry.CustomerPhone,
		CustomerEmail: entry.CustomerEmail,
		BarberName:    barberName,
		Date:          date,
		Time:          freedTime,
		Token:         entry.OfferToken,
		ExpiresAt:     expiresAt,
	}

	// Delivery is someone else's problem: a push failure does not roll the
	// entry back to waiting.
	if err := uc.sender.SendOffer(ctx, offer); err != nil {
		uc.log.Warn("offer push failed",
			zap.Uint("entry_id", entry.ID),
			zap.Error(err),
		)
	}

	return nil
}
