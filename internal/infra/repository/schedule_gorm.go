package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBarberByID(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *ScheduleGormRepository) GetBarberByEmail(
	ctx context.Context,
	email string,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *ScheduleGormRepository) ListActiveBarbers(
	ctx context.Context,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

// --------------------------------------------------
// Closure queries
// --------------------------------------------------

func (r *ScheduleGormRepository) IsShopClosed(
	ctx context.Context,
	date string,
) (bool, error) {

	weekday, err := domain.Weekday(date)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RecurringClosure{}).
		Where("barber_id = ? AND weekday = ?", domain.ShopBarberID, weekday).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.DateClosure{}).
		Where("barber_id = ? AND date = ? AND type = ?", domain.ShopBarberID, date, domain.ClosureFull).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ScheduleGormRepository) IsBarberClosed(
	ctx context.Context,
	barberID uint,
	date string,
	slot string,
) (bool, error) {

	shopClosed, err := r.IsShopClosed(ctx, date)
	if err != nil {
		return false, err
	}
	if shopClosed {
		return true, nil
	}

	closures, err := r.ListDateClosures(ctx, barberID, date)
	if err != nil {
		return false, err
	}

	var morning, afternoon bool
	for _, cl := range closures {
		switch cl.Type {
		case domain.ClosureFull:
			return true, nil
		case domain.ClosureMorning:
			morning = true
		case domain.ClosureAfternoon:
			afternoon = true
		}
	}

	if slot != "" {
		if domain.HalfOf(slot) == domain.ClosureMorning {
			return morning, nil
		}
		return afternoon, nil
	}

	return morning && afternoon, nil
}

func (r *ScheduleGormRepository) IsBarberRecurringClosed(
	ctx context.Context,
	barberID uint,
	date string,
) (bool, error) {

	weekday, err := domain.Weekday(date)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RecurringClosure{}).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListDateClosures returns the closures affecting a barber on a date,
// shop-wide rows included.
func (r *ScheduleGormRepository) ListDateClosures(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.DateClosure, error) {

	var closures []models.DateClosure
	if err := r.db.WithContext(ctx).
		Where("barber_id IN ? AND date = ?", []uint{domain.ShopBarberID, barberID}, date).
		Order("id ASC").
		Find(&closures).Error; err != nil {
		return nil, err
	}
	return closures, nil
}

// --------------------------------------------------
// Closure writes
// --------------------------------------------------

func (r *ScheduleGormRepository) FindDateClosure(
	ctx context.Context,
	barberID uint,
	date string,
	closureType string,
) (*models.DateClosure, error) {

	var closure models.DateClosure
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ? AND type = ?", barberID, date, closureType).
		First(&closure).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &closure, nil
}

func (r *ScheduleGormRepository) AddDateClosure(
	ctx context.Context,
	closure *models.DateClosure,
) error {
	return r.db.WithContext(ctx).Create(closure).Error
}

func (r *ScheduleGormRepository) DeleteDateClosure(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.DateClosure{}, id).Error
}

func (r *ScheduleGormRepository) AddRemovedAutoClosure(
	ctx context.Context,
	tombstone *models.RemovedAutoClosure,
) error {
	return r.db.WithContext(ctx).Create(tombstone).Error
}

func (r *ScheduleGormRepository) HasRemovedAutoClosure(
	ctx context.Context,
	barberID uint,
	date string,
	closureType string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RemovedAutoClosure{}).
		Where("barber_id = ? AND date = ? AND type = ?", barberID, date, closureType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Recurring closures
// --------------------------------------------------

func (r *ScheduleGormRepository) GetRecurringDays(
	ctx context.Context,
	barberID uint,
) ([]int, error) {

	var rows []models.RecurringClosure
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	days := make([]int, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.Weekday)
	}
	return days, nil
}

// ReplaceRecurringDays swaps the whole closed-day set in one transaction.
func (r *ScheduleGormRepository) ReplaceRecurringDays(
	ctx context.Context,
	barberID uint,
	days []int,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.RecurringClosure{}).Error; err != nil {
			return err
		}

		var toCreate []models.RecurringClosure
		for _, d := range days {
			toCreate = append(toCreate, models.RecurringClosure{
				BarberID: barberID,
				Weekday:  d,
			})
		}

		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --------------------------------------------------
// Overrides
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOverride(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.BarberSchedule, error) {

	var override models.BarberSchedule
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&override).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *ScheduleGormRepository) SaveOverride(
	ctx context.Context,
	override *models.BarberSchedule,
) error {

	existing, err := r.GetOverride(ctx, override.BarberID, override.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		override.ID = existing.ID
	}
	return r.db.WithContext(ctx).Save(override).Error
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
