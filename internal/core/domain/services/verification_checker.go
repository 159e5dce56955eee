package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/ports"
)

const (
	WeightAadhaar       = 40
	WeightActiveJourney = 30
	WeightRouteMatch    = 30

	DocAadhaar       = "Aadhaar verification"
	DocActiveJourney = "Active train journey (PNR)"
	DocRouteMatch    = "Journey covering the parcel route"
)

// CarrierVerification summarises whether a carrier may accept a parcel.
type CarrierVerification struct {
	AadhaarVerified   bool     `json:"aadhaarVerified"`
	HasActiveJourney  bool     `json:"hasActiveJourney"`
	RouteMatches      bool     `json:"routeMatches"`
	Score             int      `json:"score"`
	CanAccept         bool     `json:"canAccept"`
	RequiredDocuments []string `json:"requiredDocuments"`
	// MatchingJourneyID is the first active journey that matched the route.
	MatchingJourneyID *kernel.UUID `json:"-"`
}

// journeyVerifier is the part of RouteVerifier the checker needs.
type journeyVerifier interface {
	Verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) MatchResult
}

// VerificationChecker scores a carrier's prerequisites for accepting a parcel.
type VerificationChecker struct {
	identity ports.IdentityVerificationProvider
	journeys ports.ActiveJourneyFinder
	verifier journeyVerifier
	logger   *slog.Logger
}

func NewVerificationChecker(
	identity ports.IdentityVerificationProvider,
	journeys ports.ActiveJourneyFinder,
	verifier journeyVerifier,
	logger *slog.Logger,
) (*VerificationChecker, error) {
	if identity == nil || journeys == nil || verifier == nil {
		return nil, errors.New("identity provider, journey finder and route verifier are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationChecker{
		identity: identity,
		journeys: journeys,
		verifier: verifier,
		logger:   logger.With("component", "VerificationChecker"),
	}, nil
}

// Check scores carrierID against p. When p is nil the route check is skipped
// and counts as unmet.
func (c *VerificationChecker) Check(ctx context.Context, carrierID kernel.UUID, p *parcel.ParcelRequest) (CarrierVerification, error) {
	if err := carrierID.Validate(); err != nil {
		return CarrierVerification{}, err
	}

	status, err := c.identity.AadhaarStatus(ctx, carrierID)
	if err != nil {
		return CarrierVerification{}, fmt.Errorf("aadhaar status: %w", err)
	}

	active, err := c.journeys.GetActiveByCarrier(ctx, carrierID)
	if err != nil {
		return CarrierVerification{}, fmt.Errorf("active journeys: %w", err)
	}

	out := CarrierVerification{
		AadhaarVerified:   status == ports.AadhaarVerified,
		HasActiveJourney:  len(active) > 0,
		RequiredDocuments: []string{},
	}

	if p != nil {
		for _, j := range active {
			if res := c.verifier.Verify(ctx, j, p); res.IsMatch {
				id := j.ID()
				out.RouteMatches = true
				out.MatchingJourneyID = &id
				break
			}
		}
	}

	if out.AadhaarVerified {
		out.Score += WeightAadhaar
	} else {
		out.RequiredDocuments = append(out.RequiredDocuments, DocAadhaar)
	}
	if out.HasActiveJourney {
		out.Score += WeightActiveJourney
	} else {
		out.RequiredDocuments = append(out.RequiredDocuments, DocActiveJourney)
	}
	if out.RouteMatches {
		out.Score += WeightRouteMatch
	} else {
		out.RequiredDocuments = append(out.RequiredDocuments, DocRouteMatch)
	}
	out.CanAccept = out.AadhaarVerified && out.HasActiveJourney && out.RouteMatches

	c.logger.DebugContext(ctx, "carrier verification checked",
		"carrier_id", carrierID.String(), "score", out.Score, "can_accept", out.CanAccept)
	return out, nil
}
