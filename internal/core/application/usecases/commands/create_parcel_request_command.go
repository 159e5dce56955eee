package commands

import (
	"errors"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/guard"
)

var ErrCreateParcelRequestCommandIsNotConstructed = errors.New(
	"CreateParcelRequestCommand must be created via NewCreateParcelRequestCommand constructor",
)

// CreateParcelRequestCommand asks for a new parcel request. The fee is not an
// input; the handler prices the parcel itself.
type CreateParcelRequestCommand struct {
	parcelID      kernel.UUID
	senderID      kernel.UUID
	pickupStation string
	dropStation   string
	weightKg      float64
	pickupTime    time.Time

	guard guard.ConstructorGuard
}

func NewCreateParcelRequestCommand(
	parcelID, senderID kernel.UUID,
	pickupStation, dropStation string,
	weightKg float64,
	pickupTime time.Time,
) (CreateParcelRequestCommand, error) {
	if err := errors.Join(parcelID.Validate(), senderID.Validate()); err != nil {
		return CreateParcelRequestCommand{}, err
	}

	return CreateParcelRequestCommand{
		parcelID:      parcelID,
		senderID:      senderID,
		pickupStation: pickupStation,
		dropStation:   dropStation,
		weightKg:      weightKg,
		pickupTime:    pickupTime,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CreateParcelRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelRequestCommandIsNotConstructed)
}

func (c CreateParcelRequestCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c CreateParcelRequestCommand) SenderID() kernel.UUID {
	return c.senderID
}

func (c CreateParcelRequestCommand) PickupStation() string {
	return c.pickupStation
}

func (c CreateParcelRequestCommand) DropStation() string {
	return c.dropStation
}

func (c CreateParcelRequestCommand) WeightKg() float64 {
	return c.weightKg
}

func (c CreateParcelRequestCommand) PickupTime() time.Time {
	return c.pickupTime
}
