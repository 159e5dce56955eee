package session

import (
	"errors"
	"fmt"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
)

var (
	ErrSessionIsNotConstructed = errors.New("Session must be created via Start constructor")
	ErrSessionExpired          = errors.New("session expired")
	ErrSessionEnded            = errors.New("session ended")
)

// Session tracks a signed-in user's activity. It expires after idleTimeout
// without a Touch.
type Session struct {
	id             kernel.UUID
	userID         kernel.UUID
	createdAt      time.Time
	lastActivityAt time.Time
	expiresAt      time.Time
	endedAt        *time.Time

	isConstructed bool
}

// Start opens a session at now.
func Start(id, userID kernel.UUID, now time.Time, idleTimeout time.Duration) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := userID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("user_id", err)
	}
	if idleTimeout <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("idle_timeout", fmt.Errorf("%s is not positive", idleTimeout))
	}

	return &Session{
		id:             id,
		userID:         userID,
		createdAt:      now,
		lastActivityAt: now,
		expiresAt:      now.Add(idleTimeout),
		isConstructed:  true,
	}, nil
}

// Restore rebuilds a persisted session.
func Restore(id, userID kernel.UUID, createdAt, lastActivityAt, expiresAt time.Time, endedAt *time.Time) (*Session, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if expiresAt.Before(lastActivityAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause("expires_at", errors.New("before last activity"))
	}
	return &Session{
		id:             id,
		userID:         userID,
		createdAt:      createdAt,
		lastActivityAt: lastActivityAt,
		expiresAt:      expiresAt,
		endedAt:        endedAt,
		isConstructed:  true,
	}, nil
}

func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

func (s *Session) ID() kernel.UUID {
	return s.id
}

func (s *Session) UserID() kernel.UUID {
	return s.userID
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) LastActivityAt() time.Time {
	return s.lastActivityAt
}

func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s *Session) EndedAt() *time.Time {
	return s.endedAt
}

func (s *Session) IsEnded() bool {
	return s.endedAt != nil
}

// IsExpired reports whether now is past expiresAt.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Touch records activity and pushes expiry to now + idleTimeout.
func (s *Session) Touch(now time.Time, idleTimeout time.Duration) error {
	if s.IsEnded() {
		return ErrSessionEnded
	}
	if s.IsExpired(now) {
		return ErrSessionExpired
	}
	s.lastActivityAt = now
	s.expiresAt = now.Add(idleTimeout)
	return nil
}

// End closes the session. Ending an ended session keeps the first end time.
func (s *Session) End(now time.Time) {
	if s.endedAt != nil {
		return
	}
	s.endedAt = &now
}

// Expire ends the session at its expiry time if it is past due and reports
// whether it did.
func (s *Session) Expire(now time.Time) bool {
	if s.IsEnded() || !s.IsExpired(now) {
		return false
	}
	s.End(s.expiresAt)
	return true
}
