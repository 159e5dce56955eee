package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"
)

var (
	ErrParcelNotPending        = errors.New("parcel is no longer pending")
	ErrJourneyNotActive        = errors.New("journey is not active")
	ErrRouteMismatch           = errors.New("journey does not cover the parcel route")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// RouteMismatchError carries the verifier's explanation for a rejected acceptance.
type RouteMismatchError struct {
	Result services.MatchResult
}

func (e *RouteMismatchError) Error() string {
	return fmt.Sprintf("%s: %s with confidence %d", ErrRouteMismatch, e.Result.MatchType, e.Result.Confidence)
}

func (e *RouteMismatchError) Unwrap() error {
	return ErrRouteMismatch
}

type routeVerifier interface {
	Verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) services.MatchResult
}

// AcceptParcelCommandHandler assigns a pending parcel to a carrier's journey.
//
// The parcel row is locked for the whole transaction, so of two carriers racing
// for the same parcel one commits and the other sees ErrParcelNotPending.
//
// Errors:
//   - errs.ErrObjectNotFound: parcel or journey does not exist
//   - journey.ErrNotOwnedByCarrier: journey belongs to someone else
//   - ErrJourneyNotActive: journey was deactivated
//   - ErrParcelNotPending: parcel was accepted or cancelled already
//   - ErrRouteMismatch (as *RouteMismatchError): verifier rejected the pairing
type AcceptParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	verifier   routeVerifier
	publisher  eventPublisher
	clock      Clock
	logger     *slog.Logger
}

func NewAcceptParcelCommandHandler(
	uowFactory ParcelUoWFactory,
	verifier routeVerifier,
	publisher eventPublisher,
	clock Clock,
	logger *slog.Logger,
) AcceptParcelCommandHandler {
	return AcceptParcelCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		publisher:  publisher,
		clock:      clockOrDefault(clock),
		logger:     loggerOrDefault(logger, "AcceptParcelCommandHandler"),
	}
}

func (h AcceptParcelCommandHandler) Handle(ctx context.Context, cmd AcceptParcelCommand) (services.MatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.MatchResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.MatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	journeyRepo := uow.JourneyRepository()

	p, err := parcelRepo.GetForUpdate(ctx, cmd.ParcelID())
	if err != nil {
		return services.MatchResult{}, err
	}
	if p.Status() != parcel.Pending {
		return services.MatchResult{}, ErrParcelNotPending
	}

	j, err := journeyRepo.Get(ctx, cmd.JourneyID())
	if err != nil {
		return services.MatchResult{}, err
	}
	if !j.IsOwnedBy(cmd.CarrierID()) {
		return services.MatchResult{}, journey.ErrNotOwnedByCarrier
	}
	if !j.IsActive() {
		return services.MatchResult{}, ErrJourneyNotActive
	}

	result := h.verifier.Verify(ctx, j, p)
	if !result.IsMatch {
		return result, &RouteMismatchError{Result: result}
	}

	if err = p.Accept(cmd.CarrierID(), cmd.JourneyID()); err != nil {
		return services.MatchResult{}, fmt.Errorf("%w: %w", ErrInvalidStatusTransition, err)
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return services.MatchResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.MatchResult{}, err
	}

	publishAfterCommit(ctx, h.publisher, h.logger, SubjectParcelAccepted, ParcelAcceptedEvent{
		ParcelID:   p.ID().String(),
		CarrierID:  cmd.CarrierID().String(),
		JourneyID:  cmd.JourneyID().String(),
		MatchType:  string(result.MatchType),
		Confidence: result.Confidence,
		OccurredAt: h.clock().UTC().Truncate(time.Second),
	})

	return result, nil
}
