package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parcelbridge/internal/core/domain/model/parcel"
)

// ErrNotParcelParticipant is returned when the actor is neither the sender
// (for cancel) nor the assigned carrier (for the other actions).
var ErrNotParcelParticipant = errors.New("actor may not change this parcel")

// UpdateParcelStatusCommandHandler moves a parcel through its lifecycle.
type UpdateParcelStatusCommandHandler struct {
	uowFactory ParcelUoWFactory
	publisher  eventPublisher
	clock      Clock
	logger     *slog.Logger
}

func NewUpdateParcelStatusCommandHandler(
	uowFactory ParcelUoWFactory,
	publisher eventPublisher,
	clock Clock,
	logger *slog.Logger,
) UpdateParcelStatusCommandHandler {
	return UpdateParcelStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clockOrDefault(clock),
		logger:     loggerOrDefault(logger, "UpdateParcelStatusCommandHandler"),
	}
}

// Handle returns the parcel's new status.
func (h UpdateParcelStatusCommandHandler) Handle(ctx context.Context, cmd UpdateParcelStatusCommand) (parcel.Status, error) {
	if err := cmd.Validate(); err != nil {
		return parcel.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return parcel.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ParcelRepository()
	p, err := repo.GetForUpdate(ctx, cmd.ParcelID())
	if err != nil {
		return parcel.Unknown, err
	}

	if !isParticipant(p, cmd) {
		return parcel.Unknown, ErrNotParcelParticipant
	}

	from := p.Status()
	if err = applyAction(p, cmd.Action()); err != nil {
		return parcel.Unknown, fmt.Errorf("%w: %w", ErrInvalidStatusTransition, err)
	}

	if err = repo.Update(ctx, p); err != nil {
		return parcel.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return parcel.Unknown, err
	}

	publishAfterCommit(ctx, h.publisher, h.logger, SubjectParcelStatusChanged, ParcelStatusChangedEvent{
		ParcelID:   p.ID().String(),
		ActorID:    cmd.ActorID().String(),
		From:       from.String(),
		To:         p.Status().String(),
		OccurredAt: h.clock().UTC().Truncate(time.Second),
	})

	return p.Status(), nil
}

func isParticipant(p *parcel.ParcelRequest, cmd UpdateParcelStatusCommand) bool {
	if cmd.Action().bySender() {
		return p.SenderID().IsEqual(cmd.ActorID())
	}
	carrier := p.CarrierID()
	return carrier != nil && carrier.IsEqual(cmd.ActorID())
}

func applyAction(p *parcel.ParcelRequest, action ParcelAction) error {
	switch action {
	case ActionPickup:
		return p.StartTransit()
	case ActionDeliver:
		return p.Deliver()
	case ActionCancel:
		return p.Cancel()
	case ActionFail:
		return p.FailByCarrier()
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
