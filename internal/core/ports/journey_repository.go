package ports

import (
	"context"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
)

type JourneyRepository interface {
	Add(ctx context.Context, aggregate *journey.Journey) error
	Update(ctx context.Context, aggregate *journey.Journey) error
	Get(ctx context.Context, id kernel.UUID) (*journey.Journey, error)
	ActiveJourneyFinder

	// GetActiveBefore returns active journeys dated strictly before date.
	GetActiveBefore(ctx context.Context, date time.Time) ([]*journey.Journey, error)
}

// ActiveJourneyFinder lists a carrier's journeys that are still eligible for matching.
type ActiveJourneyFinder interface {
	GetActiveByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*journey.Journey, error)
}
