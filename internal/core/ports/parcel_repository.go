package ports

import (
	"context"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
)

type ParcelRepository interface {
	Add(ctx context.Context, aggregate *parcel.ParcelRequest) error
	Update(ctx context.Context, aggregate *parcel.ParcelRequest) error
	Get(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error)

	// GetForUpdate loads the parcel and locks its row until the surrounding
	// transaction ends. Concurrent callers block on the lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error)
}
