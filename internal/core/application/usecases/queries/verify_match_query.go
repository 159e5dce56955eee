package queries

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/pkg/guard"
)

var ErrVerifyMatchQueryIsNotConstructed = errors.New(
	"VerifyMatchQuery must be created via NewVerifyMatchQuery constructor",
)

// VerifyMatchQuery previews whether a journey can carry a parcel without
// accepting it.
type VerifyMatchQuery struct {
	parcelID  kernel.UUID
	journeyID kernel.UUID

	guard guard.ConstructorGuard
}

func NewVerifyMatchQuery(parcelID, journeyID kernel.UUID) (VerifyMatchQuery, error) {
	if err := errors.Join(parcelID.Validate(), journeyID.Validate()); err != nil {
		return VerifyMatchQuery{}, err
	}
	return VerifyMatchQuery{parcelID: parcelID, journeyID: journeyID, guard: guard.NewConstructorGuard()}, nil
}

func (q VerifyMatchQuery) Validate() error {
	return q.guard.Validate(ErrVerifyMatchQueryIsNotConstructed)
}

type parcelReader interface {
	Get(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error)
}

type journeyReader interface {
	Get(ctx context.Context, id kernel.UUID) (*journey.Journey, error)
}

type routeVerifier interface {
	Verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) services.MatchResult
}

type VerifyMatchQueryHandler struct {
	parcels  parcelReader
	journeys journeyReader
	verifier routeVerifier
}

func NewVerifyMatchQueryHandler(parcels parcelReader, journeys journeyReader, verifier routeVerifier) VerifyMatchQueryHandler {
	return VerifyMatchQueryHandler{parcels: parcels, journeys: journeys, verifier: verifier}
}

// Handle returns errs.ErrObjectNotFound when either aggregate is missing.
func (h VerifyMatchQueryHandler) Handle(ctx context.Context, query VerifyMatchQuery) (services.MatchResult, error) {
	if err := query.Validate(); err != nil {
		return services.MatchResult{}, err
	}

	p, err := h.parcels.Get(ctx, query.parcelID)
	if err != nil {
		return services.MatchResult{}, err
	}
	j, err := h.journeys.Get(ctx, query.journeyID)
	if err != nil {
		return services.MatchResult{}, err
	}

	return h.verifier.Verify(ctx, j, p), nil
}
