package commands

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"
)

var ErrFeeEstimateFailed = errors.New("fee estimate failed")

// FeeEstimateError carries the estimator's user-facing message.
type FeeEstimateError struct {
	Estimate services.FeeEstimate
}

func (e *FeeEstimateError) Error() string {
	return ErrFeeEstimateFailed.Error() + ": " + e.Estimate.Error
}

func (e *FeeEstimateError) Unwrap() error {
	return ErrFeeEstimateFailed
}

type feeEstimator interface {
	Estimate(ctx context.Context, weightKg float64, fromStation, toStation string) services.FeeEstimate
}

// CreateParcelRequestCommandHandler prices a parcel with the fee estimator and
// stores it as PENDING. A failed estimate rejects the request.
type CreateParcelRequestCommandHandler struct {
	uowFactory ParcelUoWFactory
	estimator  feeEstimator
}

func NewCreateParcelRequestCommandHandler(uowFactory ParcelUoWFactory, estimator feeEstimator) CreateParcelRequestCommandHandler {
	return CreateParcelRequestCommandHandler{
		uowFactory: uowFactory,
		estimator:  estimator,
	}
}

// Handle returns the breakdown the stored fee was computed from.
func (h CreateParcelRequestCommandHandler) Handle(ctx context.Context, cmd CreateParcelRequestCommand) (services.FeeBreakdown, error) {
	if err := cmd.Validate(); err != nil {
		return services.FeeBreakdown{}, err
	}

	est := h.estimator.Estimate(ctx, cmd.WeightKg(), cmd.PickupStation(), cmd.DropStation())
	if !est.Success || est.Breakdown == nil {
		return services.FeeBreakdown{}, &FeeEstimateError{Estimate: est}
	}

	p, err := parcel.NewParcelRequest(cmd.ParcelID(), cmd.SenderID(), parcel.Params{
		PickupStation: cmd.PickupStation(),
		DropStation:   cmd.DropStation(),
		WeightKg:      cmd.WeightKg(),
		PickupTime:    cmd.PickupTime(),
		Fee:           est.Fee,
	})
	if err != nil {
		return services.FeeBreakdown{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return services.FeeBreakdown{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return services.FeeBreakdown{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.FeeBreakdown{}, err
	}

	return *est.Breakdown, nil
}
