package services_test

import (
	"context"
	"errors"
	"testing"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	status ports.AadhaarStatus
	err    error
}

func (s stubIdentity) AadhaarStatus(context.Context, kernel.UUID) (ports.AadhaarStatus, error) {
	return s.status, s.err
}

type stubJourneys []*journey.Journey

func (s stubJourneys) GetActiveByCarrier(context.Context, kernel.UUID) ([]*journey.Journey, error) {
	return s, nil
}

// stubVerifier matches only the journeys it was given.
type stubVerifier struct {
	matching map[string]bool
	calls    int
}

func (s *stubVerifier) Verify(_ context.Context, j *journey.Journey, _ *parcel.ParcelRequest) services.MatchResult {
	s.calls++
	if s.matching[j.ID().String()] {
		return services.MatchResult{IsMatch: true, MatchType: services.MatchExact, Confidence: 95}
	}
	return services.MatchResult{MatchType: services.MatchNone}
}

func TestVerificationChecker_Check(t *testing.T) {
	p := parcelBetween(t, "Thane", "Lonavala", journeyDay)
	carrier := kernel.NewUUID()

	t.Run("should allow fully verified carrier", func(t *testing.T) {
		miss := deccanJourney(t, nil, true)
		hit := deccanJourney(t, nil, true)
		verifier := &stubVerifier{matching: map[string]bool{hit.ID().String(): true}}
		c, err := services.NewVerificationChecker(stubIdentity{status: ports.AadhaarVerified}, stubJourneys{miss, hit}, verifier, nil)
		require.NoError(t, err)

		got, err := c.Check(t.Context(), carrier, p)

		require.NoError(t, err)
		assert.Equal(t, 100, got.Score)
		assert.True(t, got.CanAccept)
		assert.Empty(t, got.RequiredDocuments)
		require.NotNil(t, got.MatchingJourneyID)
		assert.True(t, got.MatchingJourneyID.IsEqual(hit.ID()))
		assert.Equal(t, 2, verifier.calls)
	})

	t.Run("should list every unmet requirement", func(t *testing.T) {
		c, err := services.NewVerificationChecker(stubIdentity{status: ports.AadhaarPending}, stubJourneys{}, &stubVerifier{}, nil)
		require.NoError(t, err)

		got, err := c.Check(t.Context(), carrier, p)

		require.NoError(t, err)
		assert.Equal(t, 0, got.Score)
		assert.False(t, got.CanAccept)
		assert.Equal(t, []string{
			"Aadhaar verification",
			"Active train journey (PNR)",
			"Journey covering the parcel route",
		}, got.RequiredDocuments)
	})

	t.Run("should score partial progress", func(t *testing.T) {
		c, err := services.NewVerificationChecker(
			stubIdentity{status: ports.AadhaarVerified},
			stubJourneys{deccanJourney(t, nil, true)},
			&stubVerifier{},
			nil,
		)
		require.NoError(t, err)

		got, err := c.Check(t.Context(), carrier, p)

		require.NoError(t, err)
		assert.Equal(t, 70, got.Score)
		assert.False(t, got.CanAccept)
		assert.Equal(t, []string{"Journey covering the parcel route"}, got.RequiredDocuments)
	})

	t.Run("should skip route check without parcel", func(t *testing.T) {
		verifier := &stubVerifier{}
		c, err := services.NewVerificationChecker(
			stubIdentity{status: ports.AadhaarVerified},
			stubJourneys{deccanJourney(t, nil, true)},
			verifier,
			nil,
		)
		require.NoError(t, err)

		got, err := c.Check(t.Context(), carrier, nil)

		require.NoError(t, err)
		assert.Equal(t, 70, got.Score)
		assert.Zero(t, verifier.calls)
	})

	t.Run("should return provider error", func(t *testing.T) {
		boom := errors.New("identity store unavailable")
		c, err := services.NewVerificationChecker(stubIdentity{err: boom}, stubJourneys{}, &stubVerifier{}, nil)
		require.NoError(t, err)

		_, err = c.Check(t.Context(), carrier, p)

		require.ErrorIs(t, err, boom)
	})
}
