package commands

import (
	"errors"

	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/pkg/guard"
)

var ErrProcessPaymentEventCommandIsNotConstructed = errors.New(
	"ProcessPaymentEventCommand must be created via NewProcessPaymentEventCommand constructor",
)

// ProcessPaymentEventCommand applies one verified Razorpay webhook delivery.
type ProcessPaymentEventCommand struct {
	event payment.Event

	guard guard.ConstructorGuard
}

func NewProcessPaymentEventCommand(event payment.Event) (ProcessPaymentEventCommand, error) {
	if err := event.Validate(); err != nil {
		return ProcessPaymentEventCommand{}, err
	}
	return ProcessPaymentEventCommand{
		event: event,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPaymentEventCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentEventCommandIsNotConstructed)
}

func (c ProcessPaymentEventCommand) Event() payment.Event {
	return c.event
}
