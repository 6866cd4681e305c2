package waitlist

import (
	"context"

	bookingdomain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	domain "github.com/barbierimoderni/booking-api/internal/domain/waitlist"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/validators"
)

type JoinWaitlistInput struct {
	BarberID  uint
	Date      string
	ServiceID uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
}

type JoinWaitlist struct {
	repo     domain.Repository
	schedule schedule.Repository
	bookings bookingdomain.Repository
}

func NewJoinWaitlist(
	repo domain.Repository,
	scheduleRepo schedule.Repository,
	bookingRepo bookingdomain.Repository,
) *JoinWaitlist {
	return &JoinWaitlist{
		repo:     repo,
		schedule: scheduleRepo,
		bookings: bookingRepo,
	}
}

func (uc *JoinWaitlist) Execute(
	ctx context.Context,
	in JoinWaitlistInput,
) (*models.WaitlistEntry, error) {

	if !schedule.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if in.CustomerName == "" || !validators.IsValidPhone(in.CustomerPhone) {
		return nil, httperr.ErrBusiness("invalid_customer")
	}

	barber, err := uc.schedule.GetBarberByID(ctx, in.BarberID)
	if err != nil || !barber.Active {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	if _, err := uc.bookings.GetService(ctx, in.ServiceID); err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	entry := &models.WaitlistEntry{
		BarberID:      in.BarberID,
		Date:          in.Date,
		ServiceID:     in.ServiceID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
	}

	if err := uc.repo.Add(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
