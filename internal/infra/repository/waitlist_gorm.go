package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type WaitlistGormRepository struct {
	db *gorm.DB
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{db: db}
}

// Add appends the entry at the back of the queue for its (barber, date).
func (r *WaitlistGormRepository) Add(
	ctx context.Context,
	entry *models.WaitlistEntry,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		if err := tx.
			Model(&models.WaitlistEntry{}).
			Where("barber_id = ? AND date = ?", entry.BarberID, entry.Date).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		entry.Position = int(maxPos) + 1
		entry.Status = string(domain.StatusWaiting)
		return tx.Create(entry).Error
	})
}

func (r *WaitlistGormRepository) TopWaiting(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.WaitlistEntry, error) {

	var entry models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ? AND status = ?",
			barberID, date, string(domain.StatusWaiting)).
		Order("position ASC").
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *WaitlistGormRepository) Update(
	ctx context.Context,
	entry *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *WaitlistGormRepository) ListByDate(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) ListExpiredOffers(
	ctx context.Context,
	now time.Time,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("status = ? AND offer_expires_at IS NOT NULL AND offer_expires_at < ?",
			string(domain.StatusNotified), now).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Compile-time check
var _ domain.Repository = (*WaitlistGormRepository)(nil)
