package closure

import (
	"context"

	domain "github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
)

// ShopRef addresses shop-wide closures in the API instead of a barber email.
const ShopRef = "shop"

// resolveBarberRef maps "shop" or a barber email onto a closure owner id.
func resolveBarberRef(
	ctx context.Context,
	repo domain.Repository,
	ref string,
) (uint, error) {

	if ref == ShopRef {
		return domain.ShopBarberID, nil
	}

	barber, err := repo.GetBarberByEmail(ctx, ref)
	if err != nil {
		return 0, httperr.ErrBusiness("barber_not_found")
	}
	return barber.ID, nil
}
