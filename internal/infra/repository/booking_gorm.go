package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// lockForUpdate takes a row lock on postgres; sqlite (tests) has no FOR
// UPDATE and serializes writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// serializableTx runs fn at serializable isolation. Row locks alone cannot
// stop two writers claiming the same free slot: with no conflicting rows to
// lock, both rechecks pass and both insert. Under serializable, postgres's
// predicate locking aborts the loser with SQLSTATE 40001, which the use
// cases surface as a time_conflict. Sqlite is serializable by construction
// and accepts the option.
func (r *BookingGormRepository) serializableTx(
	ctx context.Context,
	fn func(tx *gorm.DB) error,
) error {
	return r.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
}

// assertNoOverlap re-runs the slot overlap check against the live ledger:
// conflict when bookedStart < end && start < bookedEnd, cancelled rows
// excluded. Minutes of day, half-open intervals.
func assertNoOverlap(
	tx *gorm.DB,
	barberID uint,
	date string,
	startMin int,
	endMin int,
	excludeIDs ...uint,
) error {

	q := lockForUpdate(tx).
		Model(&models.Booking{}).
		Where("barber_id = ? AND date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled))

	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var rows []models.Booking
	if err := q.Select("id", "time", "duration_min").Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		bookedStart := schedule.MinuteOfDay(row.Time)
		bookedEnd := bookedStart + row.DurationMin
		if schedule.Overlaps(startMin, endMin, bookedStart, bookedEnd) {
			return httperr.ErrBusiness("time_conflict")
		}
	}
	return nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) ListActiveServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// CreateBookingChecked closes the fetch-then-claim race: the overlap recheck
// and the insert run in one transaction.
func (r *BookingGormRepository) CreateBookingChecked(
	ctx context.Context,
	b *models.Booking,
) error {

	start := schedule.MinuteOfDay(b.Time)
	end := start + b.DurationMin

	return r.serializableTx(ctx, func(tx *gorm.DB) error {
		if err := assertNoOverlap(tx, b.BarberID, b.Date, start, end); err != nil {
			return err
		}
		return tx.Create(b).Error
	})
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByPublicCode(
	ctx context.Context,
	code string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("public_code = ?", code).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Booking (move / swap)
// --------------------------------------------------

func (r *BookingGormRepository) MoveBookingChecked(
	ctx context.Context,
	id uint,
	newDate string,
	newTime string,
) (*models.Booking, error) {

	var moved models.Booking

	err := r.serializableTx(ctx, func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&moved, id).Error; err != nil {
			return err
		}

		if err := domain.CanMove(domain.Status(moved.Status)); err != nil {
			return err
		}

		start := schedule.MinuteOfDay(newTime)
		end := start + moved.DurationMin
		if err := assertNoOverlap(tx, moved.BarberID, newDate, start, end, moved.ID); err != nil {
			return err
		}

		moved.Date = newDate
		moved.Time = newTime
		return tx.Save(&moved).Error
	})

	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// SwapBookingsChecked exchanges the (date, time) of two bookings as a single
// atomic unit. Either both move or neither does.
func (r *BookingGormRepository) SwapBookingsChecked(
	ctx context.Context,
	firstID uint,
	secondID uint,
) (*models.Booking, *models.Booking, error) {

	var first, second models.Booking

	err := r.serializableTx(ctx, func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&first, firstID).Error; err != nil {
			return err
		}
		if err := lockForUpdate(tx).First(&second, secondID).Error; err != nil {
			return err
		}

		if err := domain.CanMove(domain.Status(first.Status)); err != nil {
			return err
		}
		if err := domain.CanMove(domain.Status(second.Status)); err != nil {
			return err
		}

		// Each booking is validated at its target, the swap partner excluded.
		firstStart := schedule.MinuteOfDay(second.Time)
		if err := assertNoOverlap(
			tx, first.BarberID, second.Date,
			firstStart, firstStart+first.DurationMin,
			first.ID, second.ID,
		); err != nil {
			return err
		}

		secondStart := schedule.MinuteOfDay(first.Time)
		if err := assertNoOverlap(
			tx, second.BarberID, first.Date,
			secondStart, secondStart+second.DurationMin,
			first.ID, second.ID,
		); err != nil {
			return err
		}

		first.Date, second.Date = second.Date, first.Date
		first.Time, second.Time = second.Time, first.Time

		if err := tx.Save(&first).Error; err != nil {
			return err
		}
		return tx.Save(&second).Error
	})

	if err != nil {
		return nil, nil, err
	}
	return &first, &second, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	barberID uint,
	date string,
) ([]schedule.BookedInterval, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Select("time", "duration_min").
		Where("barber_id = ? AND date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled)).
		Order("time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]schedule.BookedInterval, 0, len(rows))
	for _, row := range rows {
		out = append(out, schedule.BookedInterval{
			Time:        row.Time,
			DurationMin: row.DurationMin,
		})
	}
	return out, nil
}

func (r *BookingGormRepository) ListBookingsByDate(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsByMonth(
	ctx context.Context,
	barberID uint,
	year int,
	month int,
) ([]models.Booking, error) {

	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date LIKE ?", barberID, prefix).
		Order("date ASC, time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Admin purge
// --------------------------------------------------

func (r *BookingGormRepository) PurgeCancelled(
	ctx context.Context,
	before string,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusCancelled))

	if before != "" {
		q = q.Where("date < ?", before)
	}

	res := q.Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
