package journeyrepo

import (
	"context"
	"errors"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormJourneyRepository implements ports.JourneyRepository using GORM.
type GormJourneyRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormJourneyRepository(db *gorm.DB, tracker aggregateTracker) *GormJourneyRepository {
	return &GormJourneyRepository{db: db, tracker: tracker}
}

func (r *GormJourneyRepository) Add(ctx context.Context, aggregate *journey.Journey) error {
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

// Update writes every column, so a deactivated journey stores is_active=false.
func (r *GormJourneyRepository) Update(ctx context.Context, aggregate *journey.Journey) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&JourneyDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("journey", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormJourneyRepository) Get(ctx context.Context, id kernel.UUID) (*journey.Journey, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JourneyDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("journey", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCarrier returns the carrier's active journeys, earliest date first.
func (r *GormJourneyRepository) GetActiveByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*journey.Journey, error) {
	if err := carrierID.Validate(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx).
		Where("carrier_id = ? AND is_active", carrierID.Bytes()).
		Order("journey_date, departure_time"))
}

func (r *GormJourneyRepository) GetActiveBefore(ctx context.Context, date time.Time) ([]*journey.Journey, error) {
	y, m, d := date.Date()
	return r.find(r.db.WithContext(ctx).
		Where("is_active AND journey_date < ?", time.Date(y, m, d, 0, 0, 0, 0, time.UTC)).
		Order("journey_date"))
}

func (r *GormJourneyRepository) find(q *gorm.DB) ([]*journey.Journey, error) {
	var dtos []JourneyDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	journeys := make([]*journey.Journey, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, j)
	}
	return journeys, nil
}
