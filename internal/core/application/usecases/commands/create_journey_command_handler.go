package commands

import (
	"context"

	"parcelbridge/internal/core/domain/model/journey"
)

type CreateJourneyCommandHandler struct {
	uowFactory JourneyUoWFactory
}

func NewCreateJourneyCommandHandler(uowFactory JourneyUoWFactory) CreateJourneyCommandHandler {
	return CreateJourneyCommandHandler{uowFactory: uowFactory}
}

// Handle builds the journey first so invalid input never opens a transaction.
func (h CreateJourneyCommandHandler) Handle(ctx context.Context, cmd CreateJourneyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	j, err := journey.NewJourney(cmd.JourneyID(), cmd.CarrierID(), cmd.Params())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JourneyRepository().Add(ctx, j); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
