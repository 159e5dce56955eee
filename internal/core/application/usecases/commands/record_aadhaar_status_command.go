package commands

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/ports"
	"parcelbridge/internal/pkg/guard"
)

var ErrRecordAadhaarStatusCommandIsNotConstructed = errors.New(
	"RecordAadhaarStatusCommand must be created via NewRecordAadhaarStatusCommand constructor",
)

// RecordAadhaarStatusCommand stores the outcome of a carrier's identity check.
type RecordAadhaarStatusCommand struct {
	carrierID kernel.UUID
	status    ports.AadhaarStatus

	guard guard.ConstructorGuard
}

func NewRecordAadhaarStatusCommand(carrierID kernel.UUID, status string) (RecordAadhaarStatusCommand, error) {
	st, statusErr := ports.ParseAadhaarStatus(status)
	if err := errors.Join(carrierID.Validate(), statusErr); err != nil {
		return RecordAadhaarStatusCommand{}, err
	}
	return RecordAadhaarStatusCommand{carrierID: carrierID, status: st, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordAadhaarStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordAadhaarStatusCommandIsNotConstructed)
}

func (c RecordAadhaarStatusCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c RecordAadhaarStatusCommand) Status() ports.AadhaarStatus {
	return c.status
}

type RecordAadhaarStatusCommandHandler struct {
	uowFactory IdentityUoWFactory
}

func NewRecordAadhaarStatusCommandHandler(uowFactory IdentityUoWFactory) RecordAadhaarStatusCommandHandler {
	return RecordAadhaarStatusCommandHandler{uowFactory: uowFactory}
}

func (h RecordAadhaarStatusCommandHandler) Handle(ctx context.Context, cmd RecordAadhaarStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.IdentityVerificationRepository().SetAadhaarStatus(ctx, cmd.CarrierID(), cmd.Status()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
