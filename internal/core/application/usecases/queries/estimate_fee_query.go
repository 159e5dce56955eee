package queries

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/pkg/guard"
)

var ErrEstimateFeeQueryIsNotConstructed = errors.New(
	"EstimateFeeQuery must be created via NewEstimateFeeQuery constructor",
)

// EstimateFeeQuery prices a parcel before it is posted. Input is not validated
// here; the estimator reports bad input in the result.
type EstimateFeeQuery struct {
	weightKg float64
	from     string
	to       string

	guard guard.ConstructorGuard
}

func NewEstimateFeeQuery(weightKg float64, from, to string) EstimateFeeQuery {
	return EstimateFeeQuery{weightKg: weightKg, from: from, to: to, guard: guard.NewConstructorGuard()}
}

func (q EstimateFeeQuery) Validate() error {
	return q.guard.Validate(ErrEstimateFeeQueryIsNotConstructed)
}

type feeEstimator interface {
	Estimate(ctx context.Context, weightKg float64, from, to string) services.FeeEstimate
}

type EstimateFeeQueryHandler struct {
	estimator feeEstimator
}

func NewEstimateFeeQueryHandler(estimator feeEstimator) EstimateFeeQueryHandler {
	return EstimateFeeQueryHandler{estimator: estimator}
}

func (h EstimateFeeQueryHandler) Handle(ctx context.Context, query EstimateFeeQuery) (services.FeeEstimate, error) {
	if err := query.Validate(); err != nil {
		return services.FeeEstimate{}, err
	}
	return h.estimator.Estimate(ctx, query.weightKg, query.from, query.to), nil
}
