package dailyjob

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

type Result struct {
	ClosuresCreated int `json:"closures_created"`
	OffersExpired   int `json:"offers_expired"`
}

// DailyUpdate is the idempotent regeneration batch: it materializes each
// barber's recurring weekly closures as automation-created date closures
// over a rolling horizon, skipping tombstoned dates, then sweeps lapsed
// waitlist offers. Shop-wide recurring closures are not materialized; the
// closure store consults them live.
type DailyUpdate struct {
	repo   domain.Repository
	expire *waitlist.ExpireOffers
	log    *zap.Logger
}

func NewDailyUpdate(
	repo domain.Repository,
	expire *waitlist.ExpireOffers,
	log *zap.Logger,
) *DailyUpdate {
	return &DailyUpdate{
		repo:   repo,
		expire: expire,
		log:    log,
	}
}

func (uc *DailyUpdate) Execute(
	ctx context.Context,
	from time.Time,
	horizonDays int,
) (Result, error) {

	var res Result

	barbers, err := uc.repo.ListActiveBarbers(ctx)
	if err != nil {
		return res, err
	}

	for _, barber := range barbers {
		created, err := uc.materializeBarber(ctx, barber, from, horizonDays)
		if err != nil {
			return res, err
		}
		res.ClosuresCreated += created
	}

	expired, err := uc.expire.Execute(ctx, time.Now())
	if err != nil {
		return res, err
	}
	res.OffersExpired = expired

	uc.log.Info("daily update done",
		zap.Int("closures_created", res.ClosuresCreated),
		zap.Int("offers_expired", res.OffersExpired),
	)

	return res, nil
}

func (uc *DailyUpdate) materializeBarber(
	ctx context.Context,
	barber models.Barber,
	from time.Time,
	horizonDays int,
) (int, error) {

	days, err := uc.repo.GetRecurringDays(ctx, barber.ID)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	closedOn := make(map[int]struct{}, len(days))
	for _, d := range days {
		closedOn[d] = struct{}{}
	}

	created := 0
	for i := 0; i < horizonDays; i++ {
		day := from.AddDate(0, 0, i)
		if _, closed := closedOn[int(day.Weekday())]; !closed {
			continue
		}

		date := day.Format("2006-01-02")

		// Staff said no: a tombstone pins the date open.
		tombstoned, err := uc.repo.HasRemovedAutoClosure(ctx, barber.ID, date, domain.ClosureFull)
		if err != nil {
			return created, err
		}
		if tombstoned {
			continue
		}

		existing, err := uc.repo.FindDateClosure(ctx, barber.ID, date, domain.ClosureFull)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		err = uc.repo.AddDateClosure(ctx, &models.DateClosure{
			BarberID:  barber.ID,
			Date:      date,
			Type:      domain.ClosureFull,
			Reason:    "recurring weekly closure",
			CreatedBy: domain.AutomationIdentity,
		})
		if err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
