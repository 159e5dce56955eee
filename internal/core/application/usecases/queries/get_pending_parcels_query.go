package queries

import (
	"context"
	"errors"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPendingParcelsLimit = 50
	MaxPendingParcelsLimit     = 200
)

var ErrGetPendingParcelsQueryIsNotConstructed = errors.New(
	"GetPendingParcelsQuery must be created via NewGetPendingParcelsQuery constructor",
)

// GetPendingParcelsQuery lists parcels still waiting for a carrier, earliest
// pickup first.
//
// Example:
//
//	query, _ := NewGetPendingParcelsQuery(20)
//	parcels, err := NewGetPendingParcelsQueryHandler(db).Handle(ctx, query)
type GetPendingParcelsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

func NewGetPendingParcelsQuery(limit int) (GetPendingParcelsQuery, error) {
	if limit == 0 {
		limit = DefaultPendingParcelsLimit
	}
	if limit < 1 || limit > MaxPendingParcelsLimit {
		return GetPendingParcelsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPendingParcelsLimit)
	}
	return GetPendingParcelsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPendingParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingParcelsQueryIsNotConstructed)
}

type GetPendingParcelsQueryResponse struct {
	ID            kernel.UUID
	SenderID      kernel.UUID
	PickupStation string
	DropStation   string
	WeightKg      float64
	PickupTime    time.Time
	Fee           int
}

type GetPendingParcelsQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingParcelsQueryHandler(db *gorm.DB) GetPendingParcelsQueryHandler {
	return GetPendingParcelsQueryHandler{db: db}
}

func (h GetPendingParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingParcelsQuery,
) ([]GetPendingParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	parcels := make([]GetPendingParcelsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sender_id,
			pickup_station,
			drop_station,
			weight_kg,
			pickup_time,
			fee
		FROM parcel_requests
		WHERE status = ?
		ORDER BY pickup_time, id
		LIMIT ?
	`, parcel.Pending.String(), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p GetPendingParcelsQueryResponse
		var id, senderID uuid.UUID

		err = rows.Scan(
			&id,
			&senderID,
			&p.PickupStation,
			&p.DropStation,
			&p.WeightKg,
			&p.PickupTime,
			&p.Fee,
		)
		if err != nil {
			return nil, err
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		p.ID = parcelID

		sender, senderErr := kernel.UUIDFromBytes(senderID[:])
		if senderErr != nil {
			return nil, senderErr
		}
		p.SenderID = sender

		parcels = append(parcels, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}
