package stationcsv_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parcelbridge/internal/adapters/in/stationcsv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationsCSV = `code,name,lat,lng,state,zone
CSMT,Chhatrapati Shivaji Maharaj Terminus,18.9398,72.8355,Maharashtra,CR
tna,Thane,19.1860,72.9750,Maharashtra,CR
PUNE,Pune Junction,18.5286,73.8743
`

func TestReadStations(t *testing.T) {
	got, err := stationcsv.ReadStations(strings.NewReader(stationsCSV))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "CSMT", got[0].Code())
	assert.Equal(t, "Chhatrapati Shivaji Maharaj Terminus", got[0].Name())
	assert.Equal(t, "CR", got[0].Zone())
	assert.Equal(t, "TNA", got[1].Code())
	assert.InDelta(t, 18.5286, got[2].Location().Lat(), 1e-9)
	assert.Empty(t, got[2].State())
}

func TestReadStations_ColumnOrderFollowsHeader(t *testing.T) {
	in := "name,lng,lat,code\nKalyan Junction,73.1305,19.2437,KYN\n"
	got, err := stationcsv.ReadStations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KYN", got[0].Code())
	assert.InDelta(t, 19.2437, got[0].Location().Lat(), 1e-9)
}

func TestReadStations_ReportsEveryBadRow(t *testing.T) {
	in := `code,name,lat,lng
CSMT,Mumbai CST,18.94,72.83
,Nameless,19.0,72.9
LNL,Lonavala,north,73.4
CSMT,Duplicate,18.94,72.83
`
	_, err := stationcsv.ReadStations(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "line 5: duplicate code CSMT")
}

func TestReadStations_MissingColumns(t *testing.T) {
	_, err := stationcsv.ReadStations(strings.NewReader("code,name\nCSMT,Mumbai CST\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat, lng")
}

func TestReadStations_Empty(t *testing.T) {
	_, err := stationcsv.ReadStations(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadDistances(t *testing.T) {
	in := "from_code,to_code,distance_km\nCSMT,TNA,34\ntna,pune,158.5\nCSMT,PUNE,far\n"

	_, err := stationcsv.ReadDistances(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")

	got, err := stationcsv.ReadDistances(strings.NewReader("from_code,to_code,distance_km\nCSMT,TNA,34\ntna,pune,158.5\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TNA", got[1].FromCode())
	assert.Equal(t, "PUNE", got[1].ToCode())
	assert.InDelta(t, 158.5, got[1].Km(), 1e-9)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	stationsPath := filepath.Join(dir, "stations.csv")
	distancesPath := filepath.Join(dir, "distances.csv")
	require.NoError(t, os.WriteFile(stationsPath, []byte(stationsCSV), 0o600))
	require.NoError(t, os.WriteFile(distancesPath, []byte("from_code,to_code,distance_km\nCSMT,PUNE,192\n"), 0o600))

	stations, distances, err := stationcsv.LoadFiles(stationsPath, distancesPath)
	require.NoError(t, err)
	assert.Len(t, stations, 3)
	assert.Len(t, distances, 1)

	stations, distances, err = stationcsv.LoadFiles(stationsPath, "")
	require.NoError(t, err)
	assert.Len(t, stations, 3)
	assert.Nil(t, distances)

	_, _, err = stationcsv.LoadFiles(filepath.Join(dir, "missing.csv"), "")
	require.Error(t, err)
}
