package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"parcelbridge/internal/core/ports"
)

const (
	msgWeightNotPositive   = "Weight must be greater than 0"
	msgStationsRequired    = "Both pickup and drop stations are required"
	msgSameStations        = "Pickup and drop stations cannot be the same"
	msgDistanceUnavailable = "Unable to calculate distance between the selected stations"
	msgEstimateFailed      = "Failed to calculate fee estimate"
)

var ErrWeightTiersInvalid = errors.New("weight tiers are invalid")

// WeightTier prices parcels whose weight lies in (MinWeight, MaxWeight].
type WeightTier struct {
	MinWeight float64
	MaxWeight float64
	BaseFee   int
	CostPerKm float64
	Label     string
}

func (t WeightTier) contains(weightKg float64) bool {
	return weightKg > t.MinWeight && weightKg <= t.MaxWeight
}

// DefaultWeightTiers is the standard Light/Medium/Heavy table.
func DefaultWeightTiers() []WeightTier {
	return []WeightTier{
		{MinWeight: 0, MaxWeight: 2, BaseFee: 50, CostPerKm: 1.0, Label: "Light"},
		{MinWeight: 2, MaxWeight: 5, BaseFee: 100, CostPerKm: 1.5, Label: "Medium"},
		{MinWeight: 5, MaxWeight: 10, BaseFee: 150, CostPerKm: 2.0, Label: "Heavy"},
	}
}

// ValidateWeightTiers checks that tiers are non-empty, start at zero and leave
// no gaps or overlaps once sorted by lower bound.
func ValidateWeightTiers(tiers []WeightTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrWeightTiersInvalid)
	}
	sorted := sortedTiers(tiers)
	if sorted[0].MinWeight != 0 {
		return fmt.Errorf("%w: first tier must start at 0", ErrWeightTiersInvalid)
	}
	for i, t := range sorted {
		if t.MaxWeight <= t.MinWeight {
			return fmt.Errorf("%w: tier %q has an empty range", ErrWeightTiersInvalid, t.Label)
		}
		if t.BaseFee < 0 || t.CostPerKm < 0 {
			return fmt.Errorf("%w: tier %q has a negative price", ErrWeightTiersInvalid, t.Label)
		}
		if strings.TrimSpace(t.Label) == "" {
			return fmt.Errorf("%w: tier %d has no label", ErrWeightTiersInvalid, i)
		}
		if i > 0 && sorted[i-1].MaxWeight != t.MinWeight {
			return fmt.Errorf("%w: tiers %q and %q do not meet", ErrWeightTiersInvalid, sorted[i-1].Label, t.Label)
		}
	}
	return nil
}

func sortedTiers(tiers []WeightTier) []WeightTier {
	out := make([]WeightTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinWeight < out[j].MinWeight })
	return out
}

// FeeBreakdown itemises a successful estimate.
type FeeBreakdown struct {
	BaseFee     int     `json:"baseFee"`
	DistanceFee int     `json:"distanceFee"`
	WeightTier  string  `json:"weightTier"`
	DistanceKm  float64 `json:"distance"`
	TotalFee    int     `json:"totalFee"`
}

// FeeEstimate is the result of FeeEstimator.Estimate. Exactly one of Breakdown
// and Error is set.
type FeeEstimate struct {
	Success             bool          `json:"success"`
	Fee                 int           `json:"fee,omitempty"`
	Breakdown           *FeeBreakdown `json:"breakdown,omitempty"`
	Error               string        `json:"error,omitempty"`
	RequiresManualQuote bool          `json:"requiresManualQuote,omitempty"`
}

func failedEstimate(msg string) FeeEstimate {
	return FeeEstimate{Error: msg}
}

// FeeEstimator prices parcels as baseFee + round(distanceKm * costPerKm) for the
// parcel's weight tier.
//
// Validation runs in a fixed order and the first failure is returned:
//  1. weight must be positive
//  2. weight must not exceed the heaviest tier (manual quote otherwise)
//  3. both stations must be given
//  4. stations must differ ignoring case and surrounding spaces
//  5. a distance must be known for the pair
type FeeEstimator struct {
	tiers     []WeightTier
	maxWeight float64
	distances ports.DistanceLookup
	logger    *slog.Logger
}

func NewFeeEstimator(distances ports.DistanceLookup, tiers []WeightTier, logger *slog.Logger) (*FeeEstimator, error) {
	if distances == nil {
		return nil, errors.New("distance lookup is required")
	}
	if tiers == nil {
		tiers = DefaultWeightTiers()
	}
	if err := ValidateWeightTiers(tiers); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	sorted := sortedTiers(tiers)
	return &FeeEstimator{
		tiers:     sorted,
		maxWeight: sorted[len(sorted)-1].MaxWeight,
		distances: distances,
		logger:    logger.With("component", "FeeEstimator"),
	}, nil
}

// MaxWeightKg is the heaviest weight priced automatically.
func (e *FeeEstimator) MaxWeightKg() float64 {
	return e.maxWeight
}

// Estimate prices a parcel of weightKg between two stations given by code or name.
func (e *FeeEstimator) Estimate(ctx context.Context, weightKg float64, fromStation, toStation string) (estimate FeeEstimate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "fee estimate panicked", "panic", r)
			estimate = failedEstimate(msgEstimateFailed)
		}
	}()

	if math.IsNaN(weightKg) || weightKg <= 0 {
		return failedEstimate(msgWeightNotPositive)
	}
	if weightKg > e.maxWeight {
		return FeeEstimate{
			Error:               fmt.Sprintf("Parcels over %g kg require a manual quote", e.maxWeight),
			RequiresManualQuote: true,
		}
	}

	from := strings.TrimSpace(fromStation)
	to := strings.TrimSpace(toStation)
	if from == "" || to == "" {
		return failedEstimate(msgStationsRequired)
	}
	if strings.EqualFold(from, to) {
		return failedEstimate(msgSameStations)
	}

	tier, ok := e.tierFor(weightKg)
	if !ok {
		return failedEstimate(msgEstimateFailed)
	}

	km, found, err := e.distances.DistanceKm(ctx, from, to)
	if err != nil {
		e.logger.ErrorContext(ctx, "distance lookup failed", "from", from, "to", to, "error", err)
		return failedEstimate(msgEstimateFailed)
	}
	if !found {
		return failedEstimate(msgDistanceUnavailable)
	}

	distanceFee := int(math.Round(km * tier.CostPerKm))
	total := tier.BaseFee + distanceFee

	return FeeEstimate{
		Success: true,
		Fee:     total,
		Breakdown: &FeeBreakdown{
			BaseFee:     tier.BaseFee,
			DistanceFee: distanceFee,
			WeightTier:  tier.Label,
			DistanceKm:  km,
			TotalFee:    total,
		},
	}
}

func (e *FeeEstimator) tierFor(weightKg float64) (WeightTier, bool) {
	for _, t := range e.tiers {
		if t.contains(weightKg) {
			return t, true
		}
	}
	return WeightTier{}, false
}
