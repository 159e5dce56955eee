// Package identityrepo records carrier identity checks in carrier_verifications.
package identityrepo

import (
	"context"
	"errors"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CarrierVerificationDTO struct {
	CarrierID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AadhaarStatus string    `gorm:"size:16;not null"`
	UpdatedAt     time.Time
}

func (CarrierVerificationDTO) TableName() string {
	return "carrier_verifications"
}

// GormIdentityRepository implements ports.IdentityVerificationRepository.
type GormIdentityRepository struct {
	db *gorm.DB
}

func NewGormIdentityRepository(db *gorm.DB) *GormIdentityRepository {
	return &GormIdentityRepository{db: db}
}

// AadhaarStatus returns ports.AadhaarNotSubmitted for carriers without a row.
func (r *GormIdentityRepository) AadhaarStatus(ctx context.Context, carrierID kernel.UUID) (ports.AadhaarStatus, error) {
	if err := carrierID.Validate(); err != nil {
		return "", err
	}

	var dto CarrierVerificationDTO
	err := r.db.WithContext(ctx).First(&dto, "carrier_id = ?", carrierID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.AadhaarNotSubmitted, nil
	}
	if err != nil {
		return "", err
	}
	return ports.ParseAadhaarStatus(dto.AadhaarStatus)
}

func (r *GormIdentityRepository) SetAadhaarStatus(ctx context.Context, carrierID kernel.UUID, status ports.AadhaarStatus) error {
	if err := carrierID.Validate(); err != nil {
		return err
	}
	if _, err := ports.ParseAadhaarStatus(string(status)); err != nil {
		return err
	}

	dto := CarrierVerificationDTO{CarrierID: carrierID.Bytes(), AadhaarStatus: string(status)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "carrier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"aadhaar_status", "updated_at"}),
		}).
		Create(&dto).Error
}
