package parcel

import (
	"fmt"
	"strings"

	"parcelbridge/internal/pkg/errs"
)

// Status is the lifecycle state of a parcel request.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	InTransit
	Delivered
	Cancelled
	FailedByCarrier
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "UNKNOWN",
		Pending:         "PENDING",
		Accepted:        "ACCEPTED",
		InTransit:       "IN_TRANSIT",
		Delivered:       "DELIVERED",
		Cancelled:       "CANCELLED",
		FailedByCarrier: "FAILED_BY_CARRIER",
	}
}

// ParseStatus maps the wire representation (case-insensitive) back to a Status.
func ParseStatus(s string) (Status, error) {
	wanted := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == wanted {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Pending || s > FailedByCarrier {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == FailedByCarrier
}

// HasCarrier reports whether a parcel in this status must carry a carrier assignment.
func (s Status) HasCarrier() bool {
	return s == Accepted || s == InTransit || s == Delivered || s == FailedByCarrier
}

func (s Status) ValidateCanHaveCarrier(carrier bool) error {
	if carrier && !s.HasCarrier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a carrier", s),
		)
	}
	if !carrier && s.HasCarrier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no carrier", s),
		)
	}
	return nil
}

func (s Status) Accept() (Status, error) {
	return s.transition(Accepted, "accept", Pending)
}

func (s Status) StartTransit() (Status, error) {
	return s.transition(InTransit, "pick up", Accepted)
}

func (s Status) Deliver() (Status, error) {
	return s.transition(Delivered, "deliver", InTransit)
}

func (s Status) Cancel() (Status, error) {
	return s.transition(Cancelled, "cancel", Pending, Accepted)
}

func (s Status) FailByCarrier() (Status, error) {
	return s.transition(FailedByCarrier, "fail", Accepted, InTransit)
}

func (s Status) transition(target Status, action string, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return target, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}
