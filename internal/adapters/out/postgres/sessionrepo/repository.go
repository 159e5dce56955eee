package sessionrepo

import (
	"context"
	"errors"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/session"
	"parcelbridge/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Add(ctx context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormSessionRepository) Update(ctx context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&SessionDTO{}).
		Where("id = ?", dto.ID).
		Select("last_activity_at", "expires_at", "ended_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("session", s.ID().String())
	}
	return nil
}

func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetExpired locks the rows it returns and skips rows another sweeper holds.
func (r *GormSessionRepository) GetExpired(ctx context.Context, now time.Time, limit int) ([]*session.Session, error) {
	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("ended_at IS NULL AND expires_at <= ?", now.UTC()).
		Order("expires_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
