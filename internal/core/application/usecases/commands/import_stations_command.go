package commands

import (
	"errors"

	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

var ErrImportStationsCommandIsNotConstructed = errors.New(
	"ImportStationsCommand must be created via NewImportStationsCommand constructor",
)

// ImportStationsCommand carries a parsed station catalogue and its distance table.
type ImportStationsCommand struct {
	stations  []station.Station
	distances []station.Distance

	guard guard.ConstructorGuard
}

// NewImportStationsCommand requires at least one station. Every distance must
// refer to a station in the batch.
func NewImportStationsCommand(stations []station.Station, distances []station.Distance) (ImportStationsCommand, error) {
	if len(stations) == 0 {
		return ImportStationsCommand{}, errs.NewValueIsRequiredError("stations")
	}

	known := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		if err := s.Validate(); err != nil {
			return ImportStationsCommand{}, err
		}
		known[s.Code()] = struct{}{}
	}

	var problems []error
	for _, d := range distances {
		if err := d.Validate(); err != nil {
			return ImportStationsCommand{}, err
		}
		for _, code := range []string{d.FromCode(), d.ToCode()} {
			if _, ok := known[code]; !ok {
				problems = append(problems, errs.NewObjectNotFoundError("station code", code))
			}
		}
	}
	if err := errors.Join(problems...); err != nil {
		return ImportStationsCommand{}, err
	}

	return ImportStationsCommand{
		stations:  stations,
		distances: distances,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ImportStationsCommand) Validate() error {
	return c.guard.Validate(ErrImportStationsCommandIsNotConstructed)
}

func (c ImportStationsCommand) Stations() []station.Station {
	return c.stations
}

func (c ImportStationsCommand) Distances() []station.Distance {
	return c.distances
}
