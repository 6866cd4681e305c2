package availability

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/models"
)

// Fixed dates in March 2026.
const (
	sunday    = "2026-03-08"
	monday    = "2026-03-09"
	tuesday   = "2026-03-03"
	wednesday = "2026-03-04"
	saturday  = "2026-03-07"
)

type fixture struct {
	db       *gorm.DB
	schedule *infraRepo.ScheduleGormRepository
	resolve  *ResolveSlots
	michele  *models.Barber
	fabio    *models.Barber
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	michele := &models.Barber{Name: "michele", Email: "michele@test.local", Active: true}
	fabio := &models.Barber{Name: "fabio", Email: "fabio@test.local", Active: true}
	require.NoError(t, db.Create(michele).Error)
	require.NoError(t, db.Create(fabio).Error)

	// The shop ships closed on Sundays.
	require.NoError(t, db.Create(&models.RecurringClosure{
		BarberID: schedule.ShopBarberID,
		Weekday:  0,
	}).Error)

	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	return &fixture{
		db:       db,
		schedule: scheduleRepo,
		resolve:  NewResolveSlots(scheduleRepo, bookingRepo),
		michele:  michele,
		fabio:    fabio,
	}
}

func (f *fixture) setOverride(t *testing.T, override *models.BarberSchedule) {
	t.Helper()
	require.NoError(t, f.schedule.SaveOverride(context.Background(), override))
}

func (f *fixture) book(t *testing.T, barberID uint, date, at string, durationMin int) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Booking{
		PublicCode:    fmt.Sprintf("%s-%s-%d", date, at, barberID),
		BarberID:      barberID,
		Date:          date,
		Time:          at,
		DurationMin:   durationMin,
		Status:        "pending",
		CustomerName:  "Cliente",
		CustomerPhone: "+39 333 1234567",
	}).Error)
}

func times(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func availableTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}

func TestResolveSlotsTuesdayTemplate(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}, times(slots))

	for _, s := range slots {
		assert.True(t, s.Available, s.Time)
	}
}

func TestResolveSlotsBookingFlagsOnlyItsSlot(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.fabio.ID, tuesday, "10:00", 30)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}

	assert.False(t, byTime["10:00"])
	assert.True(t, byTime["09:30"])
	assert.True(t, byTime["10:30"])
}

func TestResolveSlotsLongBookingSpansSlots(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.fabio.ID, tuesday, "10:00", 60)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)

	available := availableTimes(slots)
	assert.NotContains(t, available, "10:00")
	assert.NotContains(t, available, "10:30")
	assert.Contains(t, available, "09:30")
	assert.Contains(t, available, "11:00")
}

func TestResolveSlotsCancelledBookingsIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.Booking{
		PublicCode:    "cancelled-1",
		BarberID:      f.fabio.ID,
		Date:          tuesday,
		Time:          "10:00",
		DurationMin:   30,
		Status:        "cancelled",
		CustomerName:  "Cliente",
		CustomerPhone: "+39 333 1234567",
	}).Error)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)
	assert.Contains(t, availableTimes(slots), "10:00")
}

func TestResolveSlotsFullClosureEmptiesDay(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.DateClosure{
		BarberID: f.fabio.ID,
		Date:     tuesday,
		Type:     schedule.ClosureFull,
	}).Error)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveSlotsMorningClosureKeepsAfternoon(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.DateClosure{
		BarberID: f.fabio.ID,
		Date:     wednesday,
		Type:     schedule.ClosureMorning,
	}).Error)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, wednesday)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}, times(slots))
}

func TestResolveSlotsShopClosureAppliesToEveryBarber(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.DateClosure{
		BarberID: schedule.ShopBarberID,
		Date:     tuesday,
		Type:     schedule.ClosureFull,
	}).Error)

	for _, barber := range []*models.Barber{f.michele, f.fabio} {
		slots, err := f.resolve.Execute(context.Background(), barber.ID, tuesday)
		require.NoError(t, err)
		assert.Empty(t, slots, barber.Name)
	}
}

func TestResolveSlotsSundayClosedByDefault(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolve.Execute(context.Background(), f.michele.ID, sunday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// Reopening a Sunday takes two steps: clear weekday 0 from the shop-wide
// recurring set, then give the barber a per-date override, since the Sunday
// template has no slots of its own.
func TestResolveSlotsSundayOpenedByOverride(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.
		Where("barber_id = ? AND weekday = ?", schedule.ShopBarberID, 0).
		Delete(&models.RecurringClosure{}).Error)

	f.setOverride(t, &models.BarberSchedule{
		BarberID:       f.michele.ID,
		Date:           sunday,
		AvailableSlots: []string{"10:00", "10:30", "11:00"},
	})

	slots, err := f.resolve.Execute(context.Background(), f.michele.ID, sunday)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, times(slots))
}

func TestResolveSlotsOverrideDayOff(t *testing.T) {
	f := newFixture(t)
	f.setOverride(t, &models.BarberSchedule{
		BarberID: f.fabio.ID,
		Date:     tuesday,
		DayOff:   true,
	})

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveSlotsOverrideSubtractsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.setOverride(t, &models.BarberSchedule{
		BarberID:         f.fabio.ID,
		Date:             tuesday,
		AvailableSlots:   []string{"09:00", "09:30", "10:00", "10:30"},
		UnavailableSlots: []string{"09:30"},
	})

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, times(slots))
}

func TestResolveSlotsMondayAsymmetry(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolve.Execute(context.Background(), f.michele.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
	}, times(slots))

	slots, err = f.resolve.Execute(context.Background(), f.fabio.ID, monday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveSlotsSaturdayTemplate(t *testing.T) {
	f := newFixture(t)

	slots, err := f.resolve.Execute(context.Background(), f.fabio.ID, saturday)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
		"14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}, times(slots))
}

func TestResolveSlotsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.fabio.ID, tuesday, "10:00", 30)

	first, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)
	second, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveSlotsRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolve.Execute(context.Background(), f.fabio.ID, "03/03/2026")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = f.resolve.Execute(context.Background(), 9999, tuesday)
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestResolveSlotsInactiveBarber(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(f.fabio).Update("active", false).Error)

	_, err := f.resolve.Execute(context.Background(), f.fabio.ID, tuesday)
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

// A closed day and a fully booked day are different states and the batch
// summary must keep them apart.
func TestBatchAvailabilityDistinguishesClosedFromFull(t *testing.T) {
	f := newFixture(t)

	f.setOverride(t, &models.BarberSchedule{
		BarberID:       f.fabio.ID,
		Date:           tuesday,
		AvailableSlots: []string{"10:00"},
	})
	f.book(t, f.fabio.ID, tuesday, "10:00", 30)

	require.NoError(t, f.db.Create(&models.DateClosure{
		BarberID: f.fabio.ID,
		Date:     wednesday,
		Type:     schedule.ClosureFull,
	}).Error)

	batch := NewBatchAvailability(f.resolve)
	out, err := batch.Execute(context.Background(), f.fabio.ID, []string{tuesday, wednesday, saturday})
	require.NoError(t, err)

	full := out[tuesday]
	assert.False(t, full.HasSlots)
	assert.Equal(t, 0, full.AvailableCount)
	assert.Equal(t, 1, full.TotalSlots)

	closed := out[wednesday]
	assert.False(t, closed.HasSlots)
	assert.Equal(t, 0, closed.TotalSlots)

	open := out[saturday]
	assert.True(t, open.HasSlots)
	assert.Equal(t, 14, open.AvailableCount)
}
