package commands

import (
	"context"
	"errors"
	"time"

	"parcelbridge/internal/pkg/guard"
)

var ErrDeactivateStaleJourneysCommandIsNotConstructed = errors.New(
	"DeactivateStaleJourneysCommand must be created via NewDeactivateStaleJourneysCommand constructor",
)

// DeactivateStaleJourneysCommand removes journeys dated before today from matching.
type DeactivateStaleJourneysCommand struct {
	guard guard.ConstructorGuard
}

func NewDeactivateStaleJourneysCommand() DeactivateStaleJourneysCommand {
	return DeactivateStaleJourneysCommand{guard: guard.NewConstructorGuard()}
}

func (c DeactivateStaleJourneysCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateStaleJourneysCommandIsNotConstructed)
}

type DeactivateStaleJourneysCommandHandler struct {
	uowFactory JourneyUoWFactory
	clock      Clock
	location   *time.Location
}

// NewDeactivateStaleJourneysCommandHandler decides "today" in loc. A nil loc
// means UTC.
func NewDeactivateStaleJourneysCommandHandler(uowFactory JourneyUoWFactory, clock Clock, loc *time.Location) DeactivateStaleJourneysCommandHandler {
	if loc == nil {
		loc = time.UTC
	}
	return DeactivateStaleJourneysCommandHandler{uowFactory: uowFactory, clock: clockOrDefault(clock), location: loc}
}

// Handle returns how many journeys were deactivated.
func (h DeactivateStaleJourneysCommandHandler) Handle(ctx context.Context, cmd DeactivateStaleJourneysCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.clock().In(h.location)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, h.location)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JourneyRepository()
	stale, err := repo.GetActiveBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, j := range stale {
		if !j.IsStale(now) {
			continue
		}
		j.Deactivate()
		if err = repo.Update(ctx, j); err != nil {
			return 0, err
		}
		count++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}
