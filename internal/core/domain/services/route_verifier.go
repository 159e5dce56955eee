package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/ports"
)

type MatchType string

const (
	MatchExact        MatchType = "EXACT"
	MatchRouteOverlap MatchType = "ROUTE_OVERLAP"
	MatchNone         MatchType = "NO_MATCH"
)

const (
	ConfidenceExact        = 95
	ConfidenceRouteOverlap = 75
	ConfidenceDateMismatch = 40

	DefaultRouteTolerance = 0.20
	DefaultMinConfidence  = 60
	DefaultTimeWindow     = 30 * time.Minute
)

const (
	msgJourneyInactive   = "Journey is not active"
	msgDateIncompatible  = "Parcel pickup date does not fall on the journey date or the day before"
	msgDropBeforePickup  = "Drop station comes before pickup station"
	msgSameResolved      = "Pickup and drop resolve to the same station"
	msgOverlapWarning    = "Parcel route overlaps the journey; carrier may require stops at intermediate stations"
	msgNotOnRoute        = "Parcel route does not lie along the journey"
	msgRouteDistanceGap  = "Unable to verify route overlap: distance data unavailable"
	msgVerificationError = "Verification failed due to an internal error"
)

// MatchDetails explains how a MatchResult was reached. PickupStation and
// DropStation hold the resolved station codes.
type MatchDetails struct {
	PickupStationMatch    bool     `json:"pickupStationMatch"`
	DropStationMatch      bool     `json:"dropStationMatch"`
	RouteInclusion        bool     `json:"routeInclusion"`
	DateCompatible        bool     `json:"dateCompatible"`
	PickupStation         string   `json:"pickupStation,omitempty"`
	DropStation           string   `json:"dropStation,omitempty"`
	EstimatedPickupTime   string   `json:"estimatedPickupTime,omitempty"`
	EstimatedDeliveryTime string   `json:"estimatedDeliveryTime,omitempty"`
	Errors                []string `json:"errors"`
	Warnings              []string `json:"warnings"`
}

// MatchResult is the verdict of RouteVerifier.Verify. It is never persisted.
type MatchResult struct {
	IsMatch    bool         `json:"isMatch"`
	MatchType  MatchType    `json:"matchType"`
	Confidence int          `json:"confidence"`
	Details    MatchDetails `json:"details"`
}

func (d *MatchDetails) addError(msg string) {
	d.Errors = append(d.Errors, msg)
}

func (d *MatchDetails) addWarning(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

type RouteVerifierConfig struct {
	// Tolerance is the allowed detour as a fraction of the journey distance.
	Tolerance float64
	// MinConfidence is the lowest confidence reported as a match.
	MinConfidence int
	// TimeWindow is the width of the estimated pickup and delivery windows.
	TimeWindow time.Duration
	// Location is the zone journeys run in. Journey dates are calendar days
	// there; pickup times are converted into it. Nil means UTC.
	Location *time.Location
}

func DefaultRouteVerifierConfig() RouteVerifierConfig {
	return RouteVerifierConfig{
		Tolerance:     DefaultRouteTolerance,
		MinConfidence: DefaultMinConfidence,
		TimeWindow:    DefaultTimeWindow,
	}
}

func (c RouteVerifierConfig) Validate() error {
	var problems []error
	if c.Tolerance < 0 || c.Tolerance > 1 {
		problems = append(problems, fmt.Errorf("route tolerance %g is outside [0, 1]", c.Tolerance))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		problems = append(problems, fmt.Errorf("min confidence %d is outside [0, 100]", c.MinConfidence))
	}
	if c.TimeWindow <= 0 {
		problems = append(problems, fmt.Errorf("time window %s is not positive", c.TimeWindow))
	}
	return errors.Join(problems...)
}

// RouteVerifier decides whether a carrier's journey can carry a parcel.
//
// The parcel's free-text stations are resolved through the StationSearcher and
// StationMatcher. An exact match needs both stations on the journey in travel
// order. Otherwise the verifier falls back to comparing the detour
// source→pickup→drop→destination with the direct journey distance.
//
// Verify never returns an error. Collaborator failures and panics are logged and
// reported as NO_MATCH with confidence 0.
type RouteVerifier struct {
	searcher  ports.StationSearcher
	distances ports.DistanceLookup
	matcher   StationMatcher
	cfg       RouteVerifierConfig
	logger    *slog.Logger
}

func NewRouteVerifier(
	searcher ports.StationSearcher,
	distances ports.DistanceLookup,
	cfg RouteVerifierConfig,
	logger *slog.Logger,
) (*RouteVerifier, error) {
	if searcher == nil {
		return nil, errors.New("station searcher is required")
	}
	if distances == nil {
		return nil, errors.New("distance lookup is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &RouteVerifier{
		searcher:  searcher,
		distances: distances,
		matcher:   NewStationMatcher(),
		cfg:       cfg,
		logger:    logger.With("component", "RouteVerifier"),
	}, nil
}

func (v *RouteVerifier) MinConfidence() int {
	return v.cfg.MinConfidence
}

// overlap holds the distances measured by the fallback check.
type overlap struct {
	sourceToPickup float64
	pickupToDrop   float64
	journeyKm      float64
}

func (v *RouteVerifier) Verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.ErrorContext(ctx, "route verification panicked", "panic", r)
			result = internalErrorResult()
		}
	}()

	result, err := v.verify(ctx, j, p)
	if err != nil {
		v.logger.ErrorContext(ctx, "route verification failed", "error", err)
		return internalErrorResult()
	}
	return result
}

func (v *RouteVerifier) verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) (MatchResult, error) {
	if err := errors.Join(j.Validate(), p.Validate()); err != nil {
		return MatchResult{}, err
	}

	details := MatchDetails{Errors: []string{}, Warnings: []string{}}

	if !j.IsActive() {
		details.addError(msgJourneyInactive)
		return noMatch(details), nil
	}

	details.DateCompatible = dateCompatible(j.JourneyDate(), p.PickupTime(), v.cfg.Location)
	if !details.DateCompatible {
		details.addError(msgDateIncompatible)
	}

	pickup, pickupOK, err := v.resolve(ctx, p.PickupStation())
	if err != nil {
		return MatchResult{}, err
	}
	drop, dropOK, err := v.resolve(ctx, p.DropStation())
	if err != nil {
		return MatchResult{}, err
	}
	if !pickupOK {
		details.addError(fmt.Sprintf("Could not resolve pickup station %q", p.PickupStation()))
	}
	if !dropOK {
		details.addError(fmt.Sprintf("Could not resolve drop station %q", p.DropStation()))
	}
	if !pickupOK || !dropOK {
		return noMatch(details), nil
	}
	details.PickupStation = pickup
	details.DropStation = drop

	if pickup == drop {
		details.addError(msgSameResolved)
		return noMatch(details), nil
	}

	ordered := j.OrderedStationCodes()
	pickupIdx := slices.Index(ordered, pickup)
	dropIdx := slices.Index(ordered, drop)
	details.PickupStationMatch = pickupIdx >= 0
	details.DropStationMatch = dropIdx >= 0

	exact := false
	var ov *overlap
	switch {
	case pickupIdx >= 0 && dropIdx >= 0 && pickupIdx < dropIdx:
		exact = true
		details.RouteInclusion = true
	case pickupIdx >= 0 && dropIdx >= 0:
		details.addError(msgDropBeforePickup)
	default:
		ov, err = v.checkOverlap(ctx, j, pickup, drop, &details)
		if err != nil {
			return MatchResult{}, err
		}
	}

	var result MatchResult
	switch {
	case exact && details.DateCompatible:
		result = MatchResult{MatchType: MatchExact, Confidence: ConfidenceExact}
	case details.RouteInclusion && details.DateCompatible:
		result = MatchResult{MatchType: MatchRouteOverlap, Confidence: ConfidenceRouteOverlap}
	case details.RouteInclusion && exact:
		result = MatchResult{MatchType: MatchExact, Confidence: ConfidenceDateMismatch}
	case details.RouteInclusion:
		result = MatchResult{MatchType: MatchRouteOverlap, Confidence: ConfidenceDateMismatch}
	default:
		return noMatch(details), nil
	}

	if err = v.estimateTimes(j, result.MatchType, pickupIdx, dropIdx, len(ordered), ov, &details); err != nil {
		return MatchResult{}, err
	}

	result.Details = details
	result.IsMatch = result.Confidence >= v.cfg.MinConfidence
	return result, nil
}

// resolve maps free text to a station code.
func (v *RouteVerifier) resolve(ctx context.Context, term string) (string, bool, error) {
	candidates, err := v.searcher.Search(ctx, term)
	if err != nil {
		return "", false, fmt.Errorf("search stations for %q: %w", term, err)
	}
	best, ok := v.matcher.Best(term, candidates)
	if !ok {
		return "", false, nil
	}
	return best.Station.Code(), true, nil
}

func (v *RouteVerifier) checkOverlap(
	ctx context.Context,
	j *journey.Journey,
	pickup, drop string,
	details *MatchDetails,
) (*overlap, error) {
	src, dst := j.SourceCode(), j.DestinationCode()

	legs := [4][2]string{{src, dst}, {src, pickup}, {pickup, drop}, {drop, dst}}
	var km [4]float64
	for i, leg := range legs {
		if leg[0] == leg[1] {
			continue
		}
		d, found, err := v.distances.DistanceKm(ctx, leg[0], leg[1])
		if err != nil {
			return nil, fmt.Errorf("distance %s-%s: %w", leg[0], leg[1], err)
		}
		if !found {
			details.addError(msgRouteDistanceGap)
			return nil, nil
		}
		km[i] = d
	}

	journeyKm := km[0]
	if journeyKm <= 0 {
		details.addError(msgRouteDistanceGap)
		return nil, nil
	}

	detour := km[1] + km[2] + km[3]
	if math.Abs(detour-journeyKm) > journeyKm*v.cfg.Tolerance {
		details.addError(msgNotOnRoute)
		return nil, nil
	}

	details.RouteInclusion = true
	details.addWarning(msgOverlapWarning)
	return &overlap{sourceToPickup: km[1], pickupToDrop: km[2], journeyKm: journeyKm}, nil
}

func (v *RouteVerifier) estimateTimes(
	j *journey.Journey,
	matchType MatchType,
	pickupIdx, dropIdx, stops int,
	ov *overlap,
	details *MatchDetails,
) error {
	var pickupFrac, dropFrac float64
	switch {
	case matchType == MatchExact && stops > 1:
		pickupFrac = float64(pickupIdx) / float64(stops-1)
		dropFrac = float64(dropIdx) / float64(stops-1)
	case ov != nil:
		pickupFrac = ov.sourceToPickup / ov.journeyKm
		dropFrac = (ov.sourceToPickup + ov.pickupToDrop) / ov.journeyKm
	default:
		return nil
	}

	pickupAt, err := clockAt(j.DepartureTime(), j.ArrivalTime(), pickupFrac)
	if err != nil {
		return err
	}
	dropAt, err := clockAt(j.DepartureTime(), j.ArrivalTime(), dropFrac)
	if err != nil {
		return err
	}

	details.EstimatedPickupTime = formatWindow(pickupAt, v.cfg.TimeWindow)
	details.EstimatedDeliveryTime = formatWindow(dropAt, v.cfg.TimeWindow)
	return nil
}

func noMatch(details MatchDetails) MatchResult {
	details.RouteInclusion = false
	return MatchResult{MatchType: MatchNone, Details: details}
}

func internalErrorResult() MatchResult {
	return MatchResult{
		MatchType: MatchNone,
		Details: MatchDetails{
			Errors:   []string{msgVerificationError},
			Warnings: []string{},
		},
	}
}

// dateCompatible reports whether pickup, seen from loc, falls on the journey's
// calendar day or the day before.
func dateCompatible(journeyDate, pickup time.Time, loc *time.Location) bool {
	y, m, d := pickup.In(loc).Date()
	pickupDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	jy, jm, jd := journeyDate.Date()
	day := time.Date(jy, jm, jd, 0, 0, 0, 0, time.UTC)

	return pickupDay.Equal(day) || pickupDay.Equal(day.AddDate(0, 0, -1))
}
