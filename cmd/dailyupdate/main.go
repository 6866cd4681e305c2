package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barbierimoderni/booking-api/internal/config"
	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
	"github.com/barbierimoderni/booking-api/internal/logger"
	"github.com/barbierimoderni/booking-api/internal/notify"
	ucDailyJob "github.com/barbierimoderni/booking-api/internal/usecase/dailyjob"
	ucWaitlist "github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

// Runs the daily maintenance batch once and exits. Meant to be scheduled
// from cron; the API exposes the same job for manual reruns.
func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	kv := kvstore.NewRedisStore(cfg.RedisAddr)

	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	offerNext := ucWaitlist.NewOfferNextInLine(
		waitlistRepo,
		scheduleRepo,
		kv,
		notify.NewLogSender(log),
		cfg.WaitlistOfferTTL,
		log,
	)

	expire := ucWaitlist.NewExpireOffers(waitlistRepo, kv, offerNext, log)
	daily := ucDailyJob.NewDailyUpdate(scheduleRepo, expire, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := daily.Execute(ctx, time.Now(), cfg.DailyUpdateHorizonDays)
	if err != nil {
		log.Fatal("daily update failed", zap.Error(err))
	}

	log.Info("daily update finished",
		zap.Int("closures_created", res.ClosuresCreated),
		zap.Int("offers_expired", res.OffersExpired),
	)
}
