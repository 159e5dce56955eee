package commands

import (
	"context"
	"time"

	"parcelbridge/internal/core/domain/model/session"
)

// StartSessionCommandHandler opens sessions that expire after idleTimeout
// without a heartbeat.
type StartSessionCommandHandler struct {
	uowFactory  SessionUoWFactory
	idleTimeout time.Duration
	clock       Clock
}

func NewStartSessionCommandHandler(uowFactory SessionUoWFactory, idleTimeout time.Duration, clock Clock) StartSessionCommandHandler {
	return StartSessionCommandHandler{uowFactory: uowFactory, idleTimeout: idleTimeout, clock: clockOrDefault(clock)}
}

// Handle returns the new session's expiry.
func (h StartSessionCommandHandler) Handle(ctx context.Context, cmd StartSessionCommand) (time.Time, error) {
	if err := cmd.Validate(); err != nil {
		return time.Time{}, err
	}

	s, err := session.Start(cmd.SessionID(), cmd.UserID(), h.clock(), h.idleTimeout)
	if err != nil {
		return time.Time{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return time.Time{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.SessionRepository().Add(ctx, s); err != nil {
		return time.Time{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return time.Time{}, err
	}
	return s.ExpiresAt(), nil
}

// TouchSessionCommandHandler extends a live session. Expired or ended sessions
// return session.ErrSessionExpired or session.ErrSessionEnded.
type TouchSessionCommandHandler struct {
	uowFactory  SessionUoWFactory
	idleTimeout time.Duration
	clock       Clock
}

func NewTouchSessionCommandHandler(uowFactory SessionUoWFactory, idleTimeout time.Duration, clock Clock) TouchSessionCommandHandler {
	return TouchSessionCommandHandler{uowFactory: uowFactory, idleTimeout: idleTimeout, clock: clockOrDefault(clock)}
}

func (h TouchSessionCommandHandler) Handle(ctx context.Context, cmd TouchSessionCommand) (time.Time, error) {
	if err := cmd.Validate(); err != nil {
		return time.Time{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return time.Time{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SessionRepository()
	s, err := repo.Get(ctx, cmd.SessionID())
	if err != nil {
		return time.Time{}, err
	}

	if err = s.Touch(h.clock(), h.idleTimeout); err != nil {
		return time.Time{}, err
	}

	if err = repo.Update(ctx, s); err != nil {
		return time.Time{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return time.Time{}, err
	}
	return s.ExpiresAt(), nil
}

type EndSessionCommandHandler struct {
	uowFactory SessionUoWFactory
	clock      Clock
}

func NewEndSessionCommandHandler(uowFactory SessionUoWFactory, clock Clock) EndSessionCommandHandler {
	return EndSessionCommandHandler{uowFactory: uowFactory, clock: clockOrDefault(clock)}
}

func (h EndSessionCommandHandler) Handle(ctx context.Context, cmd EndSessionCommand) error {
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

	repo := uow.SessionRepository()
	s, err := repo.Get(ctx, cmd.SessionID())
	if err != nil {
		return err
	}

	s.End(h.clock())
	if err = repo.Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ExpireSessionsCommandHandler is run by the session expiry job.
type ExpireSessionsCommandHandler struct {
	uowFactory SessionUoWFactory
	clock      Clock
}

func NewExpireSessionsCommandHandler(uowFactory SessionUoWFactory, clock Clock) ExpireSessionsCommandHandler {
	return ExpireSessionsCommandHandler{uowFactory: uowFactory, clock: clockOrDefault(clock)}
}

// Handle returns how many sessions were ended.
func (h ExpireSessionsCommandHandler) Handle(ctx context.Context, cmd ExpireSessionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	repo := uow.SessionRepository()
	sessions, err := repo.GetExpired(ctx, now, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, s := range sessions {
		if !s.Expire(now) {
			continue
		}
		if err = repo.Update(ctx, s); err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return expired, nil
}
