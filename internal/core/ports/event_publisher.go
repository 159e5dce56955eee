package ports

import "context"

// EventPublisher delivers domain events after the state change is committed.
// subject is relative; adapters add their own prefix.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
