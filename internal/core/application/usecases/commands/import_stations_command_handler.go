package commands

import (
	"context"
	"fmt"
)

// ImportStationsCommandHandler upserts a whole catalogue in one transaction so a
// failed import leaves the previous catalogue untouched.
type ImportStationsCommandHandler struct {
	uowFactory StationUoWFactory
}

func NewImportStationsCommandHandler(uowFactory StationUoWFactory) ImportStationsCommandHandler {
	return ImportStationsCommandHandler{uowFactory: uowFactory}
}

func (h ImportStationsCommandHandler) Handle(ctx context.Context, cmd ImportStationsCommand) error {
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

	repo := uow.StationRepository()
	if err := repo.UpsertStations(ctx, cmd.Stations()); err != nil {
		return fmt.Errorf("upsert stations: %w", err)
	}
	if len(cmd.Distances()) > 0 {
		if err := repo.UpsertDistances(ctx, cmd.Distances()); err != nil {
			return fmt.Errorf("upsert distances: %w", err)
		}
	}

	return uow.Commit(ctx)
}
