package commands

import (
	"errors"
	"fmt"
	"strings"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

var ErrUpdateParcelStatusCommandIsNotConstructed = errors.New(
	"UpdateParcelStatusCommand must be created via NewUpdateParcelStatusCommand constructor",
)

// ParcelAction is a lifecycle step requested by a participant.
type ParcelAction string

const (
	ActionPickup  ParcelAction = "pickup"
	ActionDeliver ParcelAction = "deliver"
	ActionCancel  ParcelAction = "cancel"
	ActionFail    ParcelAction = "fail"
)

func ParseParcelAction(s string) (ParcelAction, error) {
	switch a := ParcelAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionPickup, ActionDeliver, ActionCancel, ActionFail:
		return a, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a parcel action", s))
	}
}

// bySender reports whether the action belongs to the sender rather than the carrier.
func (a ParcelAction) bySender() bool {
	return a == ActionCancel
}

type UpdateParcelStatusCommand struct {
	parcelID kernel.UUID
	actorID  kernel.UUID
	action   ParcelAction

	guard guard.ConstructorGuard
}

func NewUpdateParcelStatusCommand(parcelID, actorID kernel.UUID, action string) (UpdateParcelStatusCommand, error) {
	a, actionErr := ParseParcelAction(action)
	if err := errors.Join(parcelID.Validate(), actorID.Validate(), actionErr); err != nil {
		return UpdateParcelStatusCommand{}, err
	}

	return UpdateParcelStatusCommand{
		parcelID: parcelID,
		actorID:  actorID,
		action:   a,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelStatusCommandIsNotConstructed)
}

func (c UpdateParcelStatusCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c UpdateParcelStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c UpdateParcelStatusCommand) Action() ParcelAction {
	return c.action
}
