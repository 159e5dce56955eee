package commands_test

import (
	"testing"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const idle = 30 * time.Minute

func TestStartSessionCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewStartSessionCommand(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)

	repo := new(MockSessionRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*session.Session")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	expiresAt, err := commands.NewStartSessionCommandHandler(sessionFactory{factory}, idle, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(idle), expiresAt)
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestTouchSessionCommandHandler_Handle(t *testing.T) {
	t.Run("extends live session", func(t *testing.T) {
		ctx := t.Context()
		s, err := session.Start(kernel.NewUUID(), kernel.NewUUID(), fixedNow.Add(-10*time.Minute), idle)
		require.NoError(t, err)
		cmd, _ := commands.NewTouchSessionCommand(s.ID())

		repo := new(MockSessionRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("SessionRepository").Return(repo).Once()
		repo.On("Get", ctx, s.ID()).Return(s, nil).Once()
		repo.On("Update", ctx, s).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		expiresAt, err := commands.NewTouchSessionCommandHandler(sessionFactory{factory}, idle, fixedClock).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(idle), expiresAt)
		uow.AssertExpectations(t)
	})

	t.Run("rejects expired session", func(t *testing.T) {
		ctx := t.Context()
		s, err := session.Start(kernel.NewUUID(), kernel.NewUUID(), fixedNow.Add(-2*time.Hour), idle)
		require.NoError(t, err)
		cmd, _ := commands.NewTouchSessionCommand(s.ID())

		repo := new(MockSessionRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("SessionRepository").Return(repo).Once()
		repo.On("Get", ctx, s.ID()).Return(s, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		_, err = commands.NewTouchSessionCommandHandler(sessionFactory{factory}, idle, fixedClock).Handle(ctx, cmd)

		require.ErrorIs(t, err, session.ErrSessionExpired)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestExpireSessionsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	stale, _ := session.Start(kernel.NewUUID(), kernel.NewUUID(), fixedNow.Add(-time.Hour), idle)
	alsoStale, _ := session.Start(kernel.NewUUID(), kernel.NewUUID(), fixedNow.Add(-45*time.Minute), idle)
	cmd, err := commands.NewExpireSessionsCommand(100)
	require.NoError(t, err)

	repo := new(MockSessionRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(repo).Once()
	repo.On("GetExpired", ctx, fixedNow, 100).Return([]*session.Session{stale, alsoStale}, nil).Once()
	repo.On("Update", ctx, stale).Return(nil).Once()
	repo.On("Update", ctx, alsoStale).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	n, err := commands.NewExpireSessionsCommandHandler(sessionFactory{factory}, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, stale.IsEnded())
	assert.Equal(t, fixedNow.Add(-time.Hour).Add(idle), *stale.EndedAt())
	repo.AssertExpectations(t)
}

func TestNewExpireSessionsCommand_RejectsZeroBatch(t *testing.T) {
	_, err := commands.NewExpireSessionsCommand(0)

	require.Error(t, err)
}
