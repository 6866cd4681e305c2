package closure

import (
	"context"

	"go.uber.org/zap"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type RemoveClosureInput struct {
	BarberRef string
	Date      string
	Type      string
	RemovedBy string

	ActorID *uint
}

type RemoveClosure struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewRemoveClosure(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	log *zap.Logger,
) *RemoveClosure {
	return &RemoveClosure{repo: repo, audit: auditDispatcher, log: log}
}

func (uc *RemoveClosure) Execute(
	ctx context.Context,
	in RemoveClosureInput,
) error {

	if !domain.IsValidDate(in.Date) {
		return httperr.ErrBusiness("invalid_date")
	}
	if !domain.IsClosureType(in.Type) {
		return httperr.ErrBusiness("invalid_closure_type")
	}

	barberID, err := resolveBarberRef(ctx, uc.repo, in.BarberRef)
	if err != nil {
		return err
	}

	closure, err := uc.repo.FindDateClosure(ctx, barberID, in.Date, in.Type)
	if err != nil {
		return err
	}
	if closure == nil {
		return httperr.ErrBusiness("closure_not_found")
	}

	if err := uc.repo.DeleteDateClosure(ctx, closure.ID); err != nil {
		return err
	}

	// Manual closures vanish cleanly. Automation-created ones leave a
	// tombstone so the daily batch does not resurrect them.
	if closure.CreatedBy == domain.AutomationIdentity {
		if err := uc.addTombstone(ctx, barberID, in); err != nil {
			return err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "closure_removed",
		Entity:   "closure",
		EntityID: &closure.ID,
		Metadata: map[string]any{"date": in.Date, "type": in.Type},
	})

	return nil
}

func (uc *RemoveClosure) addTombstone(
	ctx context.Context,
	barberID uint,
	in RemoveClosureInput,
) error {

	exists, err := uc.repo.HasRemovedAutoClosure(ctx, barberID, in.Date, in.Type)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = uc.repo.AddRemovedAutoClosure(ctx, &models.RemovedAutoClosure{
		BarberID:  barberID,
		Date:      in.Date,
		Type:      in.Type,
		RemovedBy: in.RemovedBy,
	})

	// Two removals racing can both reach the insert; the suppression row is
	// already there, so losing the race is harmless.
	if err != nil && httperr.IsUniqueViolation(err) {
		uc.log.Info("duplicate tombstone insert tolerated",
			zap.Uint("barber_id", barberID),
			zap.String("date", in.Date),
			zap.String("type", in.Type),
		)
		return nil
	}

	return err
}
