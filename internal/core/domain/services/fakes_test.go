package services_test

import (
	"context"
	"strings"
	"testing"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"

	"github.com/stretchr/testify/require"
)

// catalogue is an in-memory station list with symmetric distances. It resolves
// names the way the postgres lookup does: by code, then by exact name.
type catalogue struct {
	stations  []station.Station
	distances map[[2]string]float64
	searchErr error
	distErr   error
	panicOn   string
}

func newCatalogue(t *testing.T) *catalogue {
	t.Helper()

	rows := []struct {
		code, name string
		lat, lng   float64
	}{
		{"CSMT", "Mumbai CSMT", 18.9398, 72.8355},
		{"DR", "Dadar", 19.0186, 72.8424},
		{"TNA", "Thane", 19.1860, 72.9759},
		{"KYN", "Kalyan Junction", 19.2354, 73.1299},
		{"LNL", "Lonavala", 18.7500, 73.4070},
		{"PUNE", "Pune Junction", 18.5286, 73.8743},
		{"NDLS", "New Delhi", 28.6430, 77.2194},
	}

	c := &catalogue{distances: make(map[[2]string]float64)}
	for _, r := range rows {
		loc, err := kernel.NewGeoPoint(r.lat, r.lng)
		require.NoError(t, err)
		s, err := station.NewStation(r.code, r.name, loc, "", "")
		require.NoError(t, err)
		c.stations = append(c.stations, s)
	}
	return c
}

func (c *catalogue) withDistance(from, to string, km float64) *catalogue {
	c.distances[[2]string{from, to}] = km
	return c
}

func (c *catalogue) Search(_ context.Context, term string) ([]station.Station, error) {
	if c.panicOn != "" && strings.EqualFold(term, c.panicOn) {
		panic("search blew up")
	}
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.stations, nil
}

func (c *catalogue) DistanceKm(_ context.Context, from, to string) (float64, bool, error) {
	if c.distErr != nil {
		return 0, false, c.distErr
	}
	a, okA := c.codeOf(from)
	b, okB := c.codeOf(to)
	if !okA || !okB {
		return 0, false, nil
	}
	if km, ok := c.distances[[2]string{a, b}]; ok {
		return km, true, nil
	}
	if km, ok := c.distances[[2]string{b, a}]; ok {
		return km, true, nil
	}
	return 0, false, nil
}

func (c *catalogue) codeOf(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, st := range c.stations {
		if strings.EqualFold(st.Code(), s) {
			return st.Code(), true
		}
	}
	for _, st := range c.stations {
		if strings.EqualFold(st.Name(), s) {
			return st.Code(), true
		}
	}
	return "", false
}
