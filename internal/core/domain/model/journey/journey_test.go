package journey_test

import (
	"testing"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() journey.Params {
	return journey.Params{
		PNR:             "4521789630",
		TrainNumber:     " 12127 ",
		SourceCode:      "csmt",
		DestinationCode: "pune",
		Stations:        []string{"csmt", "dr", "tna", "kyn", "lnl", "pune"},
		JourneyDate:     time.Date(2026, 3, 14, 17, 30, 0, 0, time.UTC),
		DepartureTime:   "06:40",
		ArrivalTime:     "09:57",
	}
}

func TestNewJourney(t *testing.T) {
	t.Run("should create active journey with normalised route", func(t *testing.T) {
		id, carrier := kernel.NewUUID(), kernel.NewUUID()

		j, err := journey.NewJourney(id, carrier, validParams())

		require.NoError(t, err)
		require.NoError(t, j.Validate())
		assert.True(t, j.IsActive())
		assert.True(t, j.IsOwnedBy(carrier))
		assert.Equal(t, "12127", j.TrainNumber())
		assert.Equal(t, "CSMT", j.SourceCode())
		assert.Equal(t, "PUNE", j.DestinationCode())
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), j.JourneyDate())
	})

	t.Run("should collect all validation errors", func(t *testing.T) {
		p := validParams()
		p.PNR = "12AB"
		p.DestinationCode = "CSMT"
		p.DepartureTime = "6:4"

		_, err := journey.NewJourney(kernel.NewUUID(), kernel.UUID{}, p)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "pnr")
		assert.Contains(t, err.Error(), "also the source")
		assert.Contains(t, err.Error(), "departure_time")
		assert.Contains(t, err.Error(), "carrier_id")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var j *journey.Journey

		require.ErrorIs(t, j.Validate(), journey.ErrJourneyIsNotConstructed)
	})
}

func TestJourney_OrderedStationCodes(t *testing.T) {
	j, err := journey.NewJourney(kernel.NewUUID(), kernel.NewUUID(), validParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"CSMT", "DR", "TNA", "KYN", "LNL", "PUNE"}, j.OrderedStationCodes())
}

func TestJourney_Stations_ReturnsCopy(t *testing.T) {
	j, _ := journey.NewJourney(kernel.NewUUID(), kernel.NewUUID(), validParams())

	s := j.Stations()
	s[0] = "XXX"

	assert.Equal(t, "CSMT", j.Stations()[0])
}

func TestJourney_IsStale(t *testing.T) {
	j, _ := journey.NewJourney(kernel.NewUUID(), kernel.NewUUID(), validParams())

	assert.False(t, j.IsStale(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)))
	assert.False(t, j.IsStale(time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)))
	assert.True(t, j.IsStale(time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)))
}

func TestJourney_IsStale_ReadsTodayInCallerZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	j, _ := journey.NewJourney(kernel.NewUUID(), kernel.NewUUID(), validParams())

	// 2026-03-14 19:30 UTC is already the 15th in India.
	assert.True(t, j.IsStale(time.Date(2026, 3, 15, 1, 0, 0, 0, ist)))
	// 2026-03-14 20:00 UTC is still the 14th in UTC.
	assert.False(t, j.IsStale(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)))
}

func TestNewJourney_DropsDateZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	params := validParams()
	params.JourneyDate = time.Date(2026, 3, 14, 0, 0, 0, 0, ist)

	j, err := journey.NewJourney(kernel.NewUUID(), kernel.NewUUID(), params)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), j.JourneyDate())
}

func TestRestoreJourney_KeepsInactiveFlag(t *testing.T) {
	j, err := journey.RestoreJourney(kernel.NewUUID(), kernel.NewUUID(), validParams(), false)

	require.NoError(t, err)
	assert.False(t, j.IsActive())

	j.Deactivate()
	assert.False(t, j.IsActive())
}
