// Package journeyrepo maps carrier journeys to the journeys table.
package journeyrepo

import (
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JourneyDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CarrierID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	PNR             string         `gorm:"column:pnr;size:10;not null"`
	TrainNumber     string         `gorm:"size:16"`
	SourceCode      string         `gorm:"size:8;not null"`
	DestinationCode string         `gorm:"size:8;not null"`
	Stations        pq.StringArray `gorm:"type:text[]"`
	JourneyDate     time.Time      `gorm:"type:date;not null;index"`
	DepartureTime   string         `gorm:"size:5;not null"`
	ArrivalTime     string         `gorm:"size:5;not null"`
	IsActive        bool           `gorm:"not null;index"`
}

func (JourneyDTO) TableName() string {
	return "journeys"
}

func fromDomain(j *journey.Journey) JourneyDTO {
	return JourneyDTO{
		ID:              j.ID().Bytes(),
		CarrierID:       j.CarrierID().Bytes(),
		PNR:             j.PNR(),
		TrainNumber:     j.TrainNumber(),
		SourceCode:      j.SourceCode(),
		DestinationCode: j.DestinationCode(),
		Stations:        pq.StringArray(j.Stations()),
		JourneyDate:     j.JourneyDate(),
		DepartureTime:   j.DepartureTime(),
		ArrivalTime:     j.ArrivalTime(),
		IsActive:        j.IsActive(),
	}
}

func toDomain(dto JourneyDTO) (*journey.Journey, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}

	y, m, d := dto.JourneyDate.Date()
	return journey.RestoreJourney(id, carrierID, journey.Params{
		PNR:             dto.PNR,
		TrainNumber:     dto.TrainNumber,
		SourceCode:      dto.SourceCode,
		DestinationCode: dto.DestinationCode,
		Stations:        []string(dto.Stations),
		JourneyDate:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		DepartureTime:   dto.DepartureTime,
		ArrivalTime:     dto.ArrivalTime,
	}, dto.IsActive)
}
