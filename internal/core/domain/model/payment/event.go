package payment

import (
	"errors"
	"fmt"
	"strings"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
)

// EventType is the Razorpay webhook event name.
type EventType string

const (
	EventPaymentCaptured EventType = "payment.captured"
	EventPaymentFailed   EventType = "payment.failed"
	EventOrderPaid       EventType = "order.paid"
)

// IsSupported reports whether the event changes wallet state.
func (t EventType) IsSupported() bool {
	switch t {
	case EventPaymentCaptured, EventPaymentFailed, EventOrderPaid:
		return true
	default:
		return false
	}
}

// TargetStatus is the transaction status the event leads to.
func (t EventType) TargetStatus() (Status, error) {
	switch t {
	case EventPaymentCaptured, EventOrderPaid:
		return Completed, nil
	case EventPaymentFailed:
		return Failed, nil
	default:
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not supported", string(t)))
	}
}

// Event is the normalised content of a webhook delivery.
type Event struct {
	Type          EventType
	OrderID       string
	PaymentID     string
	AmountPaise   int64
	Currency      string
	Method        string
	FailureReason string
	UserID        *kernel.UUID
}

func (e Event) Validate() error {
	var problems []error
	if !e.Type.IsSupported() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"event", fmt.Errorf("%q is not supported", string(e.Type))))
	}
	if strings.TrimSpace(e.OrderID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("order_id"))
	}
	if e.AmountPaise < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%d is negative", e.AmountPaise)))
	}
	return errors.Join(problems...)
}
