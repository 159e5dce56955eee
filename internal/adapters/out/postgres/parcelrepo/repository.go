package parcelrepo

import (
	"context"
	"errors"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{db: db, tracker: tracker}
}

func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.ParcelRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column so that a cancelled parcel clears its carrier.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.ParcelRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ParcelRequestDTO{}).
		Where("id = ?", dto.ID).
		Select("sender_id", "pickup_station", "drop_station", "weight_kg", "pickup_time",
			"fee", "status", "carrier_id", "journey_id", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("parcel", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate takes a row lock (SELECT ... FOR UPDATE). It only makes sense
// inside a transaction.
func (r *GormParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormParcelRepository) get(q *gorm.DB, id kernel.UUID) (*parcel.ParcelRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelRequestDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
