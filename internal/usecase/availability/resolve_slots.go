package availability

import (
	"context"

	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// ResolveSlots merges templates, per-date overrides, closures and booked
// intervals into the final slot list for a (barber, date) pair.
type ResolveSlots struct {
	repo   domain.Repository
	ledger domain.BookingLedger
}

func NewResolveSlots(
	repo domain.Repository,
	ledger domain.BookingLedger,
) *ResolveSlots {
	return &ResolveSlots{
		repo:   repo,
		ledger: ledger,
	}
}

// Execute returns the day's slots in chronological order. An empty list
// means the day is closed (or has no candidate slots at all), as opposed to
// fully booked, where slots exist but none is available.
func (uc *ResolveSlots) Execute(
	ctx context.Context,
	barberID uint,
	date string,
) ([]Slot, error) {

	if !domain.IsValidDate(date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	barber, err := uc.repo.GetBarberByID(ctx, barberID)
	if err != nil || !barber.Active {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	// 1. Whole-day closures (shop-wide or barber-level).
	closed, err := uc.repo.IsBarberClosed(ctx, barberID, date, "")
	if err != nil {
		return nil, err
	}
	if closed {
		return []Slot{}, nil
	}

	// 2. Per-date override beats the weekday template.
	candidates, err := uc.candidateSlots(ctx, barber, date)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Slot{}, nil
	}

	// 3. Drop slots in a closed half. One closure query per half at most.
	halfClosed := make(map[string]bool, 2)

	kept := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		half := domain.HalfOf(slot)
		c, seen := halfClosed[half]
		if !seen {
			c, err = uc.repo.IsBarberClosed(ctx, barberID, date, slot)
			if err != nil {
				return nil, err
			}
			halfClosed[half] = c
		}
		if !c {
			kept = append(kept, slot)
		}
	}

	// 4. Booked intervals of non-cancelled bookings.
	booked, err := uc.ledger.ListActiveBookings(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	// 5. Flag conflicts. A candidate slot occupies [slot, slot+30).
	out := make([]Slot, 0, len(kept))
	for _, slot := range kept {
		start := domain.MinuteOfDay(slot)
		end := start + domain.DefaultSlotMinutes

		available := true
		for _, b := range booked {
			bookedStart := domain.MinuteOfDay(b.Time)
			bookedEnd := bookedStart + b.DurationMin
			if domain.Overlaps(start, end, bookedStart, bookedEnd) {
				available = false
				break
			}
		}

		out = append(out, Slot{Time: slot, Available: available})
	}

	return out, nil
}

func (uc *ResolveSlots) candidateSlots(
	ctx context.Context,
	barber *models.Barber,
	date string,
) ([]string, error) {

	override, err := uc.repo.GetOverride(ctx, barber.ID, date)
	if err != nil {
		return nil, err
	}

	if override != nil {
		if override.DayOff {
			return nil, nil
		}
		return subtractSlots(override.AvailableSlots, override.UnavailableSlots), nil
	}

	weekday, err := domain.Weekday(date)
	if err != nil {
		return nil, err
	}
	return domain.TemplateSlots(barber.Name, weekday), nil
}

// subtractSlots removes unavailable from available, keeping order.
func subtractSlots(available, unavailable []string) []string {
	if len(unavailable) == 0 {
		return available
	}

	drop := make(map[string]struct{}, len(unavailable))
	for _, s := range unavailable {
		drop[s] = struct{}{}
	}

	out := make([]string, 0, len(available))
	for _, s := range available {
		if _, skip := drop[s]; !skip {
			out = append(out, s)
		}
	}
	return out
}
