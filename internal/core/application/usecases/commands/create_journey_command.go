package commands

import (
	"errors"

	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/guard"
)

var ErrCreateJourneyCommandIsNotConstructed = errors.New(
	"CreateJourneyCommand must be created via NewCreateJourneyCommand constructor",
)

// CreateJourneyCommand registers a carrier's train journey.
//
// Example:
//
//	cmd, err := NewCreateJourneyCommand(kernel.NewUUID(), carrierID, journey.Params{
//	    PNR:             "4521789630",
//	    SourceCode:      "CSMT",
//	    DestinationCode: "PUNE",
//	    JourneyDate:     date,
//	    DepartureTime:   "06:40",
//	    ArrivalTime:     "09:57",
//	})
type CreateJourneyCommand struct {
	journeyID kernel.UUID
	carrierID kernel.UUID
	params    journey.Params

	guard guard.ConstructorGuard
}

// NewCreateJourneyCommand validates the identifiers. Journey attributes are
// validated by the aggregate when the handler builds it.
func NewCreateJourneyCommand(journeyID, carrierID kernel.UUID, params journey.Params) (CreateJourneyCommand, error) {
	if err := errors.Join(journeyID.Validate(), carrierID.Validate()); err != nil {
		return CreateJourneyCommand{}, err
	}

	return CreateJourneyCommand{
		journeyID: journeyID,
		carrierID: carrierID,
		params:    params,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateJourneyCommand) Validate() error {
	return c.guard.Validate(ErrCreateJourneyCommandIsNotConstructed)
}

func (c CreateJourneyCommand) JourneyID() kernel.UUID {
	return c.journeyID
}

func (c CreateJourneyCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c CreateJourneyCommand) Params() journey.Params {
	return c.params
}
