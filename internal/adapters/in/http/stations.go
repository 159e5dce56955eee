package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"parcelbridge/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type StationMatch struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
	Zone  string `json:"zone,omitempty"`
	Score int    `json:"score"`
}

type NearbyStation struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKm float64 `json:"distanceKm"`
}

// EstimateFee handles GET /api/fees/estimate?weight=&from=&to=.
// A rejected estimate is returned with 400 and the estimator's message.
func (s *Server) EstimateFee(c echo.Context) error {
	weight, err := queryFloat(c, "weight")
	if err != nil {
		s.metrics.FeeEstimate("rejected")
		return badRequest(c, "weight must be a number")
	}

	query := queries.NewEstimateFeeQuery(weight, c.QueryParam("from"), c.QueryParam("to"))
	est, err := s.h.EstimateFee.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	switch {
	case est.Success:
		s.metrics.FeeEstimate("success")
		return c.JSON(http.StatusOK, est)
	case est.RequiresManualQuote:
		s.metrics.FeeEstimate("manual_quote")
	default:
		s.metrics.FeeEstimate("rejected")
	}
	return c.JSON(http.StatusBadRequest, est)
}

// SearchStations handles GET /api/stations/search?q=&limit=.
func (s *Server) SearchStations(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be an integer")
	}

	query, err := queries.NewSearchStationsQuery(c.QueryParam("q"), limit)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.SearchStations.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]StationMatch, len(found))
	for i, st := range found {
		response[i] = StationMatch{
			Code:  st.Code,
			Name:  st.Name,
			State: st.State,
			Zone:  st.Zone,
			Score: st.Score,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// NearbyStations handles GET /api/stations/nearby?lat=&lng=&radius_km=.
func (s *Server) NearbyStations(c echo.Context) error {
	if c.QueryParam("lat") == "" || c.QueryParam("lng") == "" {
		return badRequest(c, "lat and lng are required")
	}
	lat, latErr := queryFloat(c, "lat")
	lng, lngErr := queryFloat(c, "lng")
	radius, radiusErr := queryFloat(c, "radius_km")
	if latErr != nil || lngErr != nil || radiusErr != nil {
		return badRequest(c, "lat, lng and radius_km must be numbers")
	}

	query, err := queries.NewNearbyStationsQuery(lat, lng, radius)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.NearbyStations.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]NearbyStation, len(found))
	for i, st := range found {
		response[i] = NearbyStation{
			Code:       st.Code,
			Name:       st.Name,
			Lat:        st.Location.Lat(),
			Lng:        st.Location.Lng(),
			DistanceKm: st.DistanceKm,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// queryFloat returns 0 for a missing parameter.
func queryFloat(c echo.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// queryInt returns 0 for a missing parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
