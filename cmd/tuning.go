package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"parcelbridge/internal/core/domain/services"

	"gopkg.in/yaml.v3"
)

// Tuning holds the business knobs that operators may override from a YAML
// file. Zero fields keep the built-in defaults.
//
//	weight_tiers:
//	  - {label: Light, min_kg: 0, max_kg: 2, base_fee: 50, cost_per_km: 1.0}
//	route:
//	  tolerance: 0.2
//	  min_confidence: 60
//	  time_window_minutes: 30
type Tuning struct {
	WeightTiers []tierSpec `yaml:"weight_tiers"`
	Route       routeSpec  `yaml:"route"`
}

type tierSpec struct {
	Label     string  `yaml:"label"`
	MinKg     float64 `yaml:"min_kg"`
	MaxKg     float64 `yaml:"max_kg"`
	BaseFee   int     `yaml:"base_fee"`
	CostPerKm float64 `yaml:"cost_per_km"`
}

type routeSpec struct {
	Tolerance         *float64 `yaml:"tolerance"`
	MinConfidence     *int     `yaml:"min_confidence"`
	TimeWindowMinutes *int     `yaml:"time_window_minutes"`
}

// LoadTuning reads path. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return Tuning{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("opening tuning file: %w", err)
	}
	defer f.Close()

	t, err := ParseTuning(f)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTuning rejects unknown keys so a typo does not silently keep a default.
func ParseTuning(r io.Reader) (Tuning, error) {
	var t Tuning
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, err
	}

	if _, err := t.RouteConfig(); err != nil {
		return Tuning{}, err
	}
	if tiers := t.Tiers(); tiers != nil {
		if err := services.ValidateWeightTiers(tiers); err != nil {
			return Tuning{}, err
		}
	}
	return t, nil
}

// Tiers returns nil when the file did not override the table.
func (t Tuning) Tiers() []services.WeightTier {
	if len(t.WeightTiers) == 0 {
		return nil
	}
	out := make([]services.WeightTier, len(t.WeightTiers))
	for i, s := range t.WeightTiers {
		out[i] = services.WeightTier{
			MinWeight: s.MinKg,
			MaxWeight: s.MaxKg,
			BaseFee:   s.BaseFee,
			CostPerKm: s.CostPerKm,
			Label:     s.Label,
		}
	}
	return out
}

func (t Tuning) RouteConfig() (services.RouteVerifierConfig, error) {
	cfg := services.DefaultRouteVerifierConfig()
	if t.Route.Tolerance != nil {
		cfg.Tolerance = *t.Route.Tolerance
	}
	if t.Route.MinConfidence != nil {
		cfg.MinConfidence = *t.Route.MinConfidence
	}
	if t.Route.TimeWindowMinutes != nil {
		cfg.TimeWindow = time.Duration(*t.Route.TimeWindowMinutes) * time.Minute
	}
	if err := cfg.Validate(); err != nil {
		return services.RouteVerifierConfig{}, err
	}
	return cfg, nil
}
