// Package stationrepo persists the station catalogue and precomputed distances.
package stationrepo

import (
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"
)

// StationDTO is a row of the stations table.
type StationDTO struct {
	Code  string  `gorm:"primaryKey;size:8"`
	Name  string  `gorm:"not null;index"`
	Lat   float64 `gorm:"not null"`
	Lng   float64 `gorm:"not null"`
	State string
	Zone  string
}

func (StationDTO) TableName() string {
	return "stations"
}

// DistanceDTO stores one direction of a station pair. Lookups try both.
type DistanceDTO struct {
	FromCode string  `gorm:"primaryKey;size:8"`
	ToCode   string  `gorm:"primaryKey;size:8"`
	Km       float64 `gorm:"not null"`
}

func (DistanceDTO) TableName() string {
	return "station_distances"
}

func fromDomain(s station.Station) StationDTO {
	return StationDTO{
		Code:  s.Code(),
		Name:  s.Name(),
		Lat:   s.Location().Lat(),
		Lng:   s.Location().Lng(),
		State: s.State(),
		Zone:  s.Zone(),
	}
}

func toDomain(dto StationDTO) (station.Station, error) {
	loc, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return station.Station{}, err
	}
	return station.NewStation(dto.Code, dto.Name, loc, dto.State, dto.Zone)
}

func distanceFromDomain(d station.Distance) DistanceDTO {
	return DistanceDTO{FromCode: d.FromCode(), ToCode: d.ToCode(), Km: d.Km()}
}
