// Package sessionrepo persists user sessions.
package sessionrepo

import (
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/session"

	"github.com/google/uuid"
)

type SessionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	EndedAt        *time.Time
}

func (SessionDTO) TableName() string {
	return "user_sessions"
}

func fromDomain(s *session.Session) SessionDTO {
	return SessionDTO{
		ID:             s.ID().Bytes(),
		UserID:         s.UserID().Bytes(),
		CreatedAt:      s.CreatedAt().UTC(),
		LastActivityAt: s.LastActivityAt().UTC(),
		ExpiresAt:      s.ExpiresAt().UTC(),
		EndedAt:        s.EndedAt(),
	}
}

func toDomain(dto SessionDTO) (*session.Session, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	return session.Restore(id, userID, dto.CreatedAt, dto.LastActivityAt, dto.ExpiresAt, dto.EndedAt)
}
