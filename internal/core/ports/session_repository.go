package ports

import (
	"context"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/session"
)

type SessionRepository interface {
	Add(ctx context.Context, s *session.Session) error
	Update(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// GetExpired returns open sessions whose expiry is not after now, oldest first.
	GetExpired(ctx context.Context, now time.Time, limit int) ([]*session.Session, error)
}
