package queries

import (
	"context"
	"errors"
	"math"
	"sort"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"

	"gorm.io/gorm"
)

const (
	DefaultNearbyRadiusKm = 10.0
	MaxNearbyRadiusKm     = 200.0

	kmPerDegreeLat = 111.32
)

var ErrNearbyStationsQueryIsNotConstructed = errors.New(
	"NearbyStationsQuery must be created via NewNearbyStationsQuery constructor",
)

// NearbyStationsQuery lists stations within radiusKm of a point.
type NearbyStationsQuery struct {
	center   kernel.GeoPoint
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewNearbyStationsQuery validates the point. A zero radius means
// DefaultNearbyRadiusKm.
func NewNearbyStationsQuery(lat, lng, radiusKm float64) (NearbyStationsQuery, error) {
	center, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return NearbyStationsQuery{}, err
	}
	if radiusKm == 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm < 0 || radiusKm > MaxNearbyRadiusKm {
		return NearbyStationsQuery{}, errs.NewValueIsOutOfRangeError("radius_km", radiusKm, 0, MaxNearbyRadiusKm)
	}
	return NearbyStationsQuery{center: center, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

func (q NearbyStationsQuery) Validate() error {
	return q.guard.Validate(ErrNearbyStationsQueryIsNotConstructed)
}

type NearbyStationsQueryResponse struct {
	Code       string
	Name       string
	Location   kernel.GeoPoint
	DistanceKm float64
}

type NearbyStationsQueryHandler struct {
	db *gorm.DB
}

func NewNearbyStationsQueryHandler(db *gorm.DB) NearbyStationsQueryHandler {
	return NearbyStationsQueryHandler{db: db}
}

// Handle prefilters with a bounding box in SQL, then keeps stations whose
// haversine distance is within the radius, nearest first.
func (h NearbyStationsQueryHandler) Handle(ctx context.Context, query NearbyStationsQuery) ([]NearbyStationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	latDelta := query.radiusKm / kmPerDegreeLat
	lngDelta := 180.0
	if cos := math.Cos(query.center.Lat() * math.Pi / 180); cos > 1e-6 {
		lngDelta = math.Min(180, query.radiusKm/(kmPerDegreeLat*cos))
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			code,
			name,
			lat,
			lng
		FROM stations
		WHERE lat BETWEEN ? AND ?
			AND lng BETWEEN ? AND ?
	`,
		query.center.Lat()-latDelta, query.center.Lat()+latDelta,
		query.center.Lng()-lngDelta, query.center.Lng()+lngDelta,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]NearbyStationsQueryResponse, 0)
	for rows.Next() {
		var s NearbyStationsQueryResponse
		var lat, lng float64
		if err = rows.Scan(&s.Code, &s.Name, &lat, &lng); err != nil {
			return nil, err
		}

		loc, locErr := kernel.NewGeoPoint(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		km, distErr := query.center.DistanceKm(loc)
		if distErr != nil {
			return nil, distErr
		}
		if km > query.radiusKm {
			continue
		}

		s.Location = loc
		s.DistanceKm = math.Round(km*100) / 100
		stations = append(stations, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(stations, func(i, j int) bool {
		if stations[i].DistanceKm != stations[j].DistanceKm {
			return stations[i].DistanceKm < stations[j].DistanceKm
		}
		return stations[i].Code < stations[j].Code
	})
	return stations, nil
}
