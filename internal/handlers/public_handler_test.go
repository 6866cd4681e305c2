package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/barbierimoderni/booking-api/internal/audit"
	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/usecase/availability"
	bookinguc "github.com/barbierimoderni/booking-api/internal/usecase/booking"
	waitlistuc "github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

const tuesday = "2026-03-03"

// memKV is an in-process kvstore.Store; TTLs are ignored, tests run well
// inside any window.
type memKV struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memKV) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *models.Barber, *models.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	barber := &models.Barber{Name: "fabio", Email: "fabio@test.local", Active: true}
	require.NoError(t, db.Create(barber).Error)
	service := &models.Service{Name: "Taglio", DurationMin: 30, Price: 18, Active: true}
	require.NoError(t, db.Create(service).Error)

	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	dispatcher := audit.NewDispatcher(audit.New(db), zap.NewNop())

	resolve := availability.NewResolveSlots(scheduleRepo, bookingRepo)
	batch := availability.NewBatchAvailability(resolve)
	create := bookinguc.NewCreateBooking(bookingRepo, scheduleRepo, resolve, dispatcher)
	join := waitlistuc.NewJoinWaitlist(waitlistRepo, scheduleRepo, bookingRepo)

	h := NewPublicHandler(scheduleRepo, bookingRepo, resolve, batch, create, join, newMemKV())

	r := gin.New()
	r.GET("/api/public/barbers", h.ListBarbers)
	r.GET("/api/public/availability", h.Availability)
	r.GET("/api/public/availability/batch", h.AvailabilityBatch)
	r.POST("/api/public/bookings", h.CreateBooking)
	r.POST("/api/public/waitlist", h.JoinWaitlist)

	return r, barber, service
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, barber, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/public/availability?barber_id=%d&date=%s", barber.ID, tuesday), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []availability.Slot `json:"data"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 14, resp.Total)
	assert.Equal(t, "09:00", resp.Data[0].Time)
	assert.True(t, resp.Data[0].Available)
}

func TestAvailabilityEndpointBadInput(t *testing.T) {
	r, barber, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/public/availability?barber_id=abc&date="+tuesday, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/public/availability?barber_id=%d&date=03-03-2026", barber.ID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/public/availability?barber_id=9999&date="+tuesday, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingEndpoint(t *testing.T) {
	r, barber, service := newTestRouter(t)

	body := fmt.Sprintf(`{
		"barber_id": %d,
		"service_id": %d,
		"date": %q,
		"time": "10:00",
		"customer_name": "Anna",
		"customer_phone": "+39 333 1234567"
	}`, barber.ID, service.ID, tuesday)

	w := doJSON(r, http.MethodPost, "/api/public/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Status)
	assert.NotEmpty(t, created.PublicCode)

	// Same slot again: conflict surfaces as 409.
	w = doJSON(r, http.MethodPost, "/api/public/bookings", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingEndpointClosedDay(t *testing.T) {
	r, barber, service := newTestRouter(t)

	// Sunday has no template slots at all.
	body := fmt.Sprintf(`{
		"barber_id": %d,
		"service_id": %d,
		"date": "2026-03-08",
		"time": "10:00",
		"customer_name": "Anna",
		"customer_phone": "+39 333 1234567"
	}`, barber.ID, service.ID)

	w := doJSON(r, http.MethodPost, "/api/public/bookings", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slot_not_available")
}

func TestCreateBookingEndpointPhoneRateLimit(t *testing.T) {
	r, barber, service := newTestRouter(t)

	mk := func(at, phone string) string {
		return fmt.Sprintf(`{
			"barber_id": %d,
			"service_id": %d,
			"date": %q,
			"time": %q,
			"customer_name": "Anna",
			"customer_phone": %q
		}`, barber.ID, service.ID, tuesday, at, phone)
	}

	times := []string{"09:00", "09:30", "10:00", "10:30", "11:00"}
	for _, at := range times {
		w := doJSON(r, http.MethodPost, "/api/public/bookings", mk(at, "+39 333 1234567"))
		require.Equal(t, http.StatusCreated, w.Code, at)
	}

	// Sixth attempt in the window, spaces shuffled: same phone, throttled.
	w := doJSON(r, http.MethodPost, "/api/public/bookings", mk("11:30", "+393331234567"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")

	// A different customer still books.
	w = doJSON(r, http.MethodPost, "/api/public/bookings", mk("11:30", "+39 333 7654321"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAvailabilityBatchEndpoint(t *testing.T) {
	r, barber, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/public/availability/batch?barber_id=%d&dates=%s,2026-03-08", barber.ID, tuesday), "")
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]availability.DaySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	assert.True(t, out[tuesday].HasSlots)
	assert.Equal(t, 14, out[tuesday].TotalSlots)
	assert.Zero(t, out["2026-03-08"].TotalSlots)
}

func TestJoinWaitlistEndpoint(t *testing.T) {
	r, barber, service := newTestRouter(t)

	body := fmt.Sprintf(`{
		"barber_id": %d,
		"service_id": %d,
		"date": %q,
		"customer_name": "Anna",
		"customer_phone": "+39 333 1234567"
	}`, barber.ID, service.ID, tuesday)

	w := doJSON(r, http.MethodPost, "/api/public/waitlist", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry models.WaitlistEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, 1, entry.Position)
	assert.Equal(t, "waiting", entry.Status)
}
