package commands

import (
	"errors"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/guard"
)

var ErrAcceptParcelCommandIsNotConstructed = errors.New(
	"AcceptParcelCommand must be created via NewAcceptParcelCommand constructor",
)

// AcceptParcelCommand is a carrier taking a pending parcel on one of their journeys.
type AcceptParcelCommand struct {
	parcelID  kernel.UUID
	carrierID kernel.UUID
	journeyID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptParcelCommand(parcelID, carrierID, journeyID kernel.UUID) (AcceptParcelCommand, error) {
	if err := errors.Join(parcelID.Validate(), carrierID.Validate(), journeyID.Validate()); err != nil {
		return AcceptParcelCommand{}, err
	}

	return AcceptParcelCommand{
		parcelID:  parcelID,
		carrierID: carrierID,
		journeyID: journeyID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptParcelCommand) Validate() error {
	return c.guard.Validate(ErrAcceptParcelCommandIsNotConstructed)
}

func (c AcceptParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c AcceptParcelCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c AcceptParcelCommand) JourneyID() kernel.UUID {
	return c.journeyID
}
