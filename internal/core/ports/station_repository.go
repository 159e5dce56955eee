package ports

import (
	"context"

	"parcelbridge/internal/core/domain/model/station"
)

// StationRepository persists the station catalogue. Stations are written only by
// bulk import.
type StationRepository interface {
	// UpsertStations inserts stations or overwrites the ones whose code exists.
	UpsertStations(ctx context.Context, stations []station.Station) error

	// UpsertDistances inserts distances or overwrites the stored value for a pair.
	UpsertDistances(ctx context.Context, distances []station.Distance) error

	// GetByCode returns errs.ErrObjectNotFound when no station has the code.
	GetByCode(ctx context.Context, code string) (station.Station, error)
}

// StationSearcher returns candidate stations for a free-text term. Candidates are
// unranked; ranking is the StationMatcher's job.
type StationSearcher interface {
	Search(ctx context.Context, term string) ([]station.Station, error)
}

// DistanceLookup returns the precomputed distance between two stations given by
// code or name. found is false when either station or the pair is unknown.
type DistanceLookup interface {
	DistanceKm(ctx context.Context, from, to string) (km float64, found bool, err error)
}
