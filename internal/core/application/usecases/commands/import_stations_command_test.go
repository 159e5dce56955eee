package commands_test

import (
	"errors"
	"testing"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogue(t *testing.T) ([]station.Station, []station.Distance) {
	t.Helper()
	loc, err := kernel.NewGeoPoint(19.1860, 72.9759)
	require.NoError(t, err)
	tna, err := station.NewStation("TNA", "Thane", loc, "Maharashtra", "CR")
	require.NoError(t, err)
	lnl, err := station.NewStation("LNL", "Lonavala", loc, "Maharashtra", "CR")
	require.NoError(t, err)
	d, err := station.NewDistance("TNA", "LNL", 95)
	require.NoError(t, err)
	return []station.Station{tna, lnl}, []station.Distance{d}
}

func TestNewImportStationsCommand(t *testing.T) {
	t.Run("rejects empty catalogue", func(t *testing.T) {
		_, err := commands.NewImportStationsCommand(nil, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects distance to unknown station", func(t *testing.T) {
		stations, _ := catalogue(t)
		d, err := station.NewDistance("TNA", "PUNE", 160)
		require.NoError(t, err)

		_, err = commands.NewImportStationsCommand(stations, []station.Distance{d})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestImportStationsCommandHandler_Handle(t *testing.T) {
	t.Run("upserts stations then distances in one transaction", func(t *testing.T) {
		ctx := t.Context()
		stations, distances := catalogue(t)
		cmd, err := commands.NewImportStationsCommand(stations, distances)
		require.NoError(t, err)

		repo := new(MockStationRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("StationRepository").Return(repo).Once(),
			repo.On("UpsertStations", ctx, stations).Return(nil).Once(),
			repo.On("UpsertDistances", ctx, distances).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		require.NoError(t, commands.NewImportStationsCommandHandler(stationFactory{factory}).Handle(ctx, cmd))
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back when distances fail", func(t *testing.T) {
		ctx := t.Context()
		stations, distances := catalogue(t)
		cmd, _ := commands.NewImportStationsCommand(stations, distances)

		repo := new(MockStationRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("StationRepository").Return(repo).Once()
		repo.On("UpsertStations", ctx, stations).Return(nil).Once()
		repo.On("UpsertDistances", ctx, distances).Return(errors.New("fk violation")).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		err := commands.NewImportStationsCommandHandler(stationFactory{factory}).Handle(ctx, cmd)

		require.Error(t, err)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertExpectations(t)
	})
}
