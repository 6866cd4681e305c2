package dailyjob

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/notify"
	"github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

type nullStore struct{}

func (nullStore) Set(context.Context, string, string, time.Duration) error { return nil }
func (nullStore) Get(context.Context, string) (string, bool, error)       { return "", false, nil }
func (nullStore) Delete(context.Context, string) error                    { return nil }
func (nullStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

type fixture struct {
	db     *gorm.DB
	repo   *infraRepo.ScheduleGormRepository
	daily  *DailyUpdate
	barber *models.Barber
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	barber := &models.Barber{Name: "fabio", Email: "fabio@test.local", Active: true}
	require.NoError(t, db.Create(barber).Error)

	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)
	log := zap.NewNop()

	offer := waitlist.NewOfferNextInLine(
		waitlistRepo, scheduleRepo, nullStore{},
		notify.NewLogSender(log), time.Hour, log,
	)
	expire := waitlist.NewExpireOffers(waitlistRepo, nullStore{}, offer, log)

	return &fixture{
		db:     db,
		repo:   scheduleRepo,
		daily:  NewDailyUpdate(scheduleRepo, expire, log),
		barber: barber,
	}
}

// Monday 2026-03-02; the following Wednesdays are 03-04, 03-11.
var from = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

func TestDailyUpdateMaterializesRecurringDays(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.repo.ReplaceRecurringDays(context.Background(), f.barber.ID, []int{3}))

	res, err := f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ClosuresCreated)

	for _, date := range []string{"2026-03-04", "2026-03-11"} {
		closure, err := f.repo.FindDateClosure(context.Background(), f.barber.ID, date, domain.ClosureFull)
		require.NoError(t, err)
		require.NotNil(t, closure, date)
		assert.Equal(t, domain.AutomationIdentity, closure.CreatedBy)
	}
}

func TestDailyUpdateIsIdempotent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.repo.ReplaceRecurringDays(context.Background(), f.barber.ID, []int{3}))

	res, err := f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ClosuresCreated)

	res, err = f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Zero(t, res.ClosuresCreated)
}

func TestDailyUpdateHonorsTombstones(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.repo.ReplaceRecurringDays(context.Background(), f.barber.ID, []int{3}))

	// Staff removed the auto closure on the first Wednesday; it must stay
	// removed on every later run.
	require.NoError(t, f.repo.AddRemovedAutoClosure(context.Background(), &models.RemovedAutoClosure{
		BarberID:  f.barber.ID,
		Date:      "2026-03-04",
		Type:      domain.ClosureFull,
		RemovedBy: "admin",
	}))

	res, err := f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ClosuresCreated)

	closure, err := f.repo.FindDateClosure(context.Background(), f.barber.ID, "2026-03-04", domain.ClosureFull)
	require.NoError(t, err)
	assert.Nil(t, closure)
}

func TestDailyUpdateSkipsInactiveBarbers(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.repo.ReplaceRecurringDays(context.Background(), f.barber.ID, []int{3}))
	require.NoError(t, f.db.Model(f.barber).Update("active", false).Error)

	res, err := f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Zero(t, res.ClosuresCreated)
}

func TestDailyUpdateIgnoresShopWideSet(t *testing.T) {
	f := newFixture(t)

	// The shop-wide set is consulted live by the closure store and never
	// turned into date closure rows.
	require.NoError(t, f.repo.ReplaceRecurringDays(context.Background(), domain.ShopBarberID, []int{3}))

	res, err := f.daily.Execute(context.Background(), from, 14)
	require.NoError(t, err)
	assert.Zero(t, res.ClosuresCreated)

	var count int64
	require.NoError(t, f.db.Model(&models.DateClosure{}).Count(&count).Error)
	assert.Zero(t, count)
}
