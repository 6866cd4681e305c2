package closure

import (
	"context"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type AddClosureInput struct {
	BarberRef string // "shop" or a barber email
	Date      string
	Type      string
	Reason    string
	CreatedBy string

	ActorID *uint
}

type AddClosure struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddClosure(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *AddClosure {
	return &AddClosure{repo: repo, audit: auditDispatcher}
}

func (uc *AddClosure) Execute(
	ctx context.Context,
	in AddClosureInput,
) (*models.DateClosure, error) {

	if !domain.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if !domain.IsClosureType(in.Type) {
		return nil, httperr.ErrBusiness("invalid_closure_type")
	}

	barberID, err := resolveBarberRef(ctx, uc.repo, in.BarberRef)
	if err != nil {
		return nil, err
	}

	// Duplicates are a conflict, never an overwrite. The unique index on
	// (barber, date, type) backstops this check under concurrent writers.
	existing, err := uc.repo.FindDateClosure(ctx, barberID, in.Date, in.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ErrBusiness("closure_exists")
	}

	closure := &models.DateClosure{
		BarberID:  barberID,
		Date:      in.Date,
		Type:      in.Type,
		Reason:    in.Reason,
		CreatedBy: in.CreatedBy,
	}

	if err := uc.repo.AddDateClosure(ctx, closure); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("closure_exists")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "closure_added",
		Entity:   "closure",
		EntityID: &closure.ID,
		Metadata: map[string]any{"date": in.Date, "type": in.Type},
	})

	return closure, nil
}
