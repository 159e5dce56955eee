package queries

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/pkg/guard"
)

var ErrCheckCarrierVerificationQueryIsNotConstructed = errors.New(
	"CheckCarrierVerificationQuery must be created via NewCheckCarrierVerificationQuery constructor",
)

// CheckCarrierVerificationQuery scores a carrier's readiness. Without a parcel
// the route requirement stays unmet.
type CheckCarrierVerificationQuery struct {
	carrierID kernel.UUID
	parcelID  *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCheckCarrierVerificationQuery(carrierID kernel.UUID, parcelID *kernel.UUID) (CheckCarrierVerificationQuery, error) {
	if err := carrierID.Validate(); err != nil {
		return CheckCarrierVerificationQuery{}, err
	}
	if parcelID != nil {
		if err := parcelID.Validate(); err != nil {
			return CheckCarrierVerificationQuery{}, err
		}
	}
	return CheckCarrierVerificationQuery{carrierID: carrierID, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q CheckCarrierVerificationQuery) Validate() error {
	return q.guard.Validate(ErrCheckCarrierVerificationQueryIsNotConstructed)
}

type verificationChecker interface {
	Check(ctx context.Context, carrierID kernel.UUID, p *parcel.ParcelRequest) (services.CarrierVerification, error)
}

type CheckCarrierVerificationQueryHandler struct {
	parcels parcelReader
	checker verificationChecker
}

func NewCheckCarrierVerificationQueryHandler(parcels parcelReader, checker verificationChecker) CheckCarrierVerificationQueryHandler {
	return CheckCarrierVerificationQueryHandler{parcels: parcels, checker: checker}
}

func (h CheckCarrierVerificationQueryHandler) Handle(
	ctx context.Context,
	query CheckCarrierVerificationQuery,
) (services.CarrierVerification, error) {
	if err := query.Validate(); err != nil {
		return services.CarrierVerification{}, err
	}

	var p *parcel.ParcelRequest
	if query.parcelID != nil {
		loaded, err := h.parcels.Get(ctx, *query.parcelID)
		if err != nil {
			return services.CarrierVerification{}, err
		}
		p = loaded
	}

	return h.checker.Check(ctx, query.carrierID, p)
}
