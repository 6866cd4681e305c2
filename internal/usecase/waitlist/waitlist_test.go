package waitlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	domain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/notify"
)

const tuesday = "2026-03-03"

// memStore is an in-process stand-in for the redis store.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = s.data[key] + "+"
	return int64(len(s.data[key])), nil
}

type recordingSender struct {
	offers []notify.Offer
}

func (s *recordingSender) SendOffer(_ context.Context, offer notify.Offer) error {
	s.offers = append(s.offers, offer)
	return nil
}

type fixture struct {
	db     *gorm.DB
	repo   *infraRepo.WaitlistGormRepository
	join   *JoinWaitlist
	offer  *OfferNextInLine
	expire *ExpireOffers
	store  *memStore
	sender *recordingSender

	barber  *models.Barber
	service *models.Service
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

	service := &models.Service{Name: "Taglio", DurationMin: 30, Active: true}
	require.NoError(t, db.Create(service).Error)

	repo := infraRepo.NewWaitlistGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	store := newMemStore()
	sender := &recordingSender{}
	log := zap.NewNop()

	offer := NewOfferNextInLine(repo, scheduleRepo, store, sender, 4*time.Hour, log)

	return &fixture{
		db:      db,
		repo:    repo,
		join:    NewJoinWaitlist(repo, scheduleRepo, bookingRepo),
		offer:   offer,
		expire:  NewExpireOffers(repo, store, offer, log),
		store:   store,
		sender:  sender,
		barber:  barber,
		service: service,
	}
}

func (f *fixture) joinAs(t *testing.T, name string) *models.WaitlistEntry {
	t.Helper()
	entry, err := f.join.Execute(context.Background(), JoinWaitlistInput{
		BarberID:      f.barber.ID,
		Date:          tuesday,
		ServiceID:     f.service.ID,
		CustomerName:  name,
		CustomerPhone: "+39 333 1234567",
	})
	require.NoError(t, err)
	return entry
}

func TestJoinAssignsPositions(t *testing.T) {
	f := newFixture(t)

	first := f.joinAs(t, "Anna")
	second := f.joinAs(t, "Bruno")

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, string(domain.StatusWaiting), first.Status)
}

func TestJoinValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.join.Execute(context.Background(), JoinWaitlistInput{
		BarberID:      f.barber.ID,
		Date:          "bad",
		ServiceID:     f.service.ID,
		CustomerName:  "Anna",
		CustomerPhone: "+39 333 1234567",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = f.join.Execute(context.Background(), JoinWaitlistInput{
		BarberID:      f.barber.ID,
		Date:          tuesday,
		ServiceID:     9999,
		CustomerName:  "Anna",
		CustomerPhone: "+39 333 1234567",
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestOfferNextInLineNotifiesTopEntry(t *testing.T) {
	f := newFixture(t)

	first := f.joinAs(t, "Anna")
	second := f.joinAs(t, "Bruno")

	require.NoError(t, f.offer.Execute(context.Background(), f.barber.ID, tuesday, "10:00"))

	var top models.WaitlistEntry
	require.NoError(t, f.db.First(&top, first.ID).Error)
	assert.Equal(t, string(domain.StatusNotified), top.Status)
	assert.NotEmpty(t, top.OfferToken)
	require.NotNil(t, top.OfferExpiresAt)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), *top.OfferExpiresAt, time.Minute)

	// The rest of the queue does not move.
	var rest models.WaitlistEntry
	require.NoError(t, f.db.First(&rest, second.ID).Error)
	assert.Equal(t, string(domain.StatusWaiting), rest.Status)

	// One push went out, carrying the freed time and the token.
	require.Len(t, f.sender.offers, 1)
	assert.Equal(t, "Anna", f.sender.offers[0].CustomerName)
	assert.Equal(t, "10:00", f.sender.offers[0].Time)
	assert.Equal(t, top.OfferToken, f.sender.offers[0].Token)

	// Accept links resolve through the kv store.
	v, found, err := f.store.Get(context.Background(), offerKey(top.OfferToken))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fmt.Sprint(top.ID), v)
}

func TestOfferNextInLineEmptyQueueIsNoop(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.offer.Execute(context.Background(), f.barber.ID, tuesday, "10:00"))
	assert.Empty(t, f.sender.offers)
}

func TestExpireOffersPromotesNextInLine(t *testing.T) {
	f := newFixture(t)

	first := f.joinAs(t, "Anna")
	second := f.joinAs(t, "Bruno")

	require.NoError(t, f.offer.Execute(context.Background(), f.barber.ID, tuesday, "10:00"))

	// Force Anna's offer into the past.
	past := time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Model(&models.WaitlistEntry{}).
		Where("id = ?", first.ID).
		Update("offer_expires_at", past).Error)

	expired, err := f.expire.Execute(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var lapsed models.WaitlistEntry
	require.NoError(t, f.db.First(&lapsed, first.ID).Error)
	assert.Equal(t, string(domain.StatusExpired), lapsed.Status)

	var promoted models.WaitlistEntry
	require.NoError(t, f.db.First(&promoted, second.ID).Error)
	assert.Equal(t, string(domain.StatusNotified), promoted.Status)
	assert.NotEmpty(t, promoted.OfferToken)

	require.Len(t, f.sender.offers, 2)
}

func TestExpireOffersIdempotent(t *testing.T) {
	f := newFixture(t)

	first := f.joinAs(t, "Anna")
	require.NoError(t, f.offer.Execute(context.Background(), f.barber.ID, tuesday, "10:00"))

	past := time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Model(&models.WaitlistEntry{}).
		Where("id = ?", first.ID).
		Update("offer_expires_at", past).Error)

	expired, err := f.expire.Execute(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// Nothing left to sweep on the second pass.
	expired, err = f.expire.Execute(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, expired)
}
