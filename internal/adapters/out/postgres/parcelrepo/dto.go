// Package parcelrepo maps parcel requests to the parcel_requests table.
package parcelrepo

import (
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

type ParcelRequestDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PickupStation string     `gorm:"not null"`
	DropStation   string     `gorm:"not null"`
	WeightKg      float64    `gorm:"not null"`
	PickupTime    time.Time  `gorm:"not null"`
	Fee           int        `gorm:"not null"`
	Status        string     `gorm:"size:20;not null;index"`
	CarrierID     *uuid.UUID `gorm:"type:uuid;index"`
	JourneyID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ParcelRequestDTO) TableName() string {
	return "parcel_requests"
}

func fromDomain(p *parcel.ParcelRequest) ParcelRequestDTO {
	return ParcelRequestDTO{
		ID:            p.ID().Bytes(),
		SenderID:      p.SenderID().Bytes(),
		PickupStation: p.PickupStation(),
		DropStation:   p.DropStation(),
		WeightKg:      p.WeightKg(),
		PickupTime:    p.PickupTime().UTC(),
		Fee:           p.Fee(),
		Status:        p.Status().String(),
		CarrierID:     optionalID(p.CarrierID()),
		JourneyID:     optionalID(p.JourneyID()),
	}
}

func toDomain(dto ParcelRequestDTO) (*parcel.ParcelRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	carrierID, err := restoreOptionalID(dto.CarrierID)
	if err != nil {
		return nil, err
	}
	journeyID, err := restoreOptionalID(dto.JourneyID)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcelRequest(id, senderID, parcel.Params{
		PickupStation: dto.PickupStation,
		DropStation:   dto.DropStation,
		WeightKg:      dto.WeightKg,
		PickupTime:    dto.PickupTime,
		Fee:           dto.Fee,
	}, status, carrierID, journeyID)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
