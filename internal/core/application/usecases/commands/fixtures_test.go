package commands_test

import (
	"testing"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/require"
)

func newJourney(t *testing.T, carrierID kernel.UUID, active bool) *journey.Journey {
	t.Helper()
	j, err := journey.RestoreJourney(kernel.NewUUID(), carrierID, journey.Params{
		PNR:             "4521789630",
		TrainNumber:     "12123",
		SourceCode:      "CSMT",
		DestinationCode: "PUNE",
		Stations:        []string{"TNA", "KYN", "LNL"},
		JourneyDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		DepartureTime:   "06:40",
		ArrivalTime:     "09:57",
	}, active)
	require.NoError(t, err)
	return j
}

func newPendingParcel(t *testing.T, senderID kernel.UUID) *parcel.ParcelRequest {
	t.Helper()
	p, err := parcel.NewParcelRequest(kernel.NewUUID(), senderID, parcel.Params{
		PickupStation: "Thane",
		DropStation:   "Lonavala",
		WeightKg:      2.5,
		PickupTime:    time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Fee:           243,
	})
	require.NoError(t, err)
	return p
}

func newAcceptedParcel(t *testing.T, carrierID kernel.UUID) *parcel.ParcelRequest {
	t.Helper()
	p := newPendingParcel(t, kernel.NewUUID())
	require.NoError(t, p.Accept(carrierID, kernel.NewUUID()))
	return p
}
