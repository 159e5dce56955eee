// Package stationcsv reads the station catalogue from CSV exports.
//
// stations.csv:  code,name,lat,lng,state,zone   (state and zone may be omitted)
// distances.csv: from_code,to_code,distance_km
//
// Columns are located by header name, so their order does not matter.
package stationcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"
)

var (
	stationColumns  = []string{"code", "name", "lat", "lng"}
	distanceColumns = []string{"from_code", "to_code", "distance_km"}
)

// LoadFiles reads both files. distancesPath may be empty.
func LoadFiles(stationsPath, distancesPath string) ([]station.Station, []station.Distance, error) {
	stations, err := readFile(stationsPath, ReadStations)
	if err != nil {
		return nil, nil, err
	}
	if distancesPath == "" {
		return stations, nil, nil
	}
	distances, err := readFile(distancesPath, ReadDistances)
	if err != nil {
		return nil, nil, err
	}
	return stations, distances, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ReadStations parses every row and reports all invalid rows together.
// A code that appears twice is an error.
func ReadStations(r io.Reader) ([]station.Station, error) {
	header, rows, err := readAll(r, stationColumns)
	if err != nil {
		return nil, err
	}

	var (
		out      = make([]station.Station, 0, len(rows))
		seen     = make(map[string]int, len(rows))
		problems []error
	)
	for i, row := range rows {
		line := i + 2
		st, rowErr := parseStation(header, row)
		if rowErr != nil {
			problems = append(problems, fmt.Errorf("line %d: %w", line, rowErr))
			continue
		}
		if first, dup := seen[st.Code()]; dup {
			problems = append(problems, fmt.Errorf("line %d: duplicate code %s (first on line %d)", line, st.Code(), first))
			continue
		}
		seen[st.Code()] = line
		out = append(out, st)
	}

	if err = errors.Join(problems...); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadDistances parses every row and reports all invalid rows together.
func ReadDistances(r io.Reader) ([]station.Distance, error) {
	header, rows, err := readAll(r, distanceColumns)
	if err != nil {
		return nil, err
	}

	out := make([]station.Distance, 0, len(rows))
	var problems []error
	for i, row := range rows {
		km, parseErr := strconv.ParseFloat(field(header, row, "distance_km"), 64)
		if parseErr != nil {
			problems = append(problems, fmt.Errorf("line %d: distance_km: %w", i+2, parseErr))
			continue
		}
		d, rowErr := station.NewDistance(field(header, row, "from_code"), field(header, row, "to_code"), km)
		if rowErr != nil {
			problems = append(problems, fmt.Errorf("line %d: %w", i+2, rowErr))
			continue
		}
		out = append(out, d)
	}

	if err = errors.Join(problems...); err != nil {
		return nil, err
	}
	return out, nil
}

func parseStation(header map[string]int, row []string) (station.Station, error) {
	lat, latErr := strconv.ParseFloat(field(header, row, "lat"), 64)
	lng, lngErr := strconv.ParseFloat(field(header, row, "lng"), 64)
	if err := errors.Join(wrap("lat", latErr), wrap("lng", lngErr)); err != nil {
		return station.Station{}, err
	}

	location, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return station.Station{}, err
	}

	return station.NewStation(
		field(header, row, "code"),
		field(header, row, "name"),
		location,
		field(header, row, "state"),
		field(header, row, "zone"),
	)
}

func readAll(r io.Reader, required []string) (map[string]int, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("file is empty")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		header[name] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("header is missing %s", strings.Join(missing, ", "))
	}

	return header, records[1:], nil
}

// field returns "" for optional columns that are absent or short rows.
func field(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
