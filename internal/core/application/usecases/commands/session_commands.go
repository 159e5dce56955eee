package commands

import (
	"errors"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

var (
	ErrStartSessionCommandIsNotConstructed = errors.New(
		"StartSessionCommand must be created via NewStartSessionCommand constructor",
	)
	ErrTouchSessionCommandIsNotConstructed = errors.New(
		"TouchSessionCommand must be created via NewTouchSessionCommand constructor",
	)
	ErrEndSessionCommandIsNotConstructed = errors.New(
		"EndSessionCommand must be created via NewEndSessionCommand constructor",
	)
	ErrExpireSessionsCommandIsNotConstructed = errors.New(
		"ExpireSessionsCommand must be created via NewExpireSessionsCommand constructor",
	)
)

type StartSessionCommand struct {
	sessionID kernel.UUID
	userID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartSessionCommand(sessionID, userID kernel.UUID) (StartSessionCommand, error) {
	if err := errors.Join(sessionID.Validate(), userID.Validate()); err != nil {
		return StartSessionCommand{}, err
	}
	return StartSessionCommand{sessionID: sessionID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartSessionCommand) Validate() error {
	return c.guard.Validate(ErrStartSessionCommandIsNotConstructed)
}

func (c StartSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c StartSessionCommand) UserID() kernel.UUID {
	return c.userID
}

// TouchSessionCommand is a heartbeat from the session's client.
type TouchSessionCommand struct {
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

func NewTouchSessionCommand(sessionID kernel.UUID) (TouchSessionCommand, error) {
	if err := sessionID.Validate(); err != nil {
		return TouchSessionCommand{}, err
	}
	return TouchSessionCommand{sessionID: sessionID, guard: guard.NewConstructorGuard()}, nil
}

func (c TouchSessionCommand) Validate() error {
	return c.guard.Validate(ErrTouchSessionCommandIsNotConstructed)
}

func (c TouchSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

type EndSessionCommand struct {
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

func NewEndSessionCommand(sessionID kernel.UUID) (EndSessionCommand, error) {
	if err := sessionID.Validate(); err != nil {
		return EndSessionCommand{}, err
	}
	return EndSessionCommand{sessionID: sessionID, guard: guard.NewConstructorGuard()}, nil
}

func (c EndSessionCommand) Validate() error {
	return c.guard.Validate(ErrEndSessionCommandIsNotConstructed)
}

func (c EndSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// ExpireSessionsCommand ends up to batchSize sessions past their expiry.
type ExpireSessionsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireSessionsCommand(batchSize int) (ExpireSessionsCommand, error) {
	if batchSize <= 0 {
		return ExpireSessionsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	return ExpireSessionsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireSessionsCommand) Validate() error {
	return c.guard.Validate(ErrExpireSessionsCommandIsNotConstructed)
}

func (c ExpireSessionsCommand) BatchSize() int {
	return c.batchSize
}
