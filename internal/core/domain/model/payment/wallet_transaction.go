package payment

import (
	"errors"
	"fmt"
	"strings"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
)

const defaultCurrency = "INR"

var ErrWalletTransactionIsNotConstructed = errors.New(
	"WalletTransaction must be created via NewWalletTransaction constructor")

// Status of a wallet transaction.
type Status string

const (
	StatusUnknown Status = ""
	Pending       Status = "pending"
	Completed     Status = "completed"
	Failed        Status = "failed"
)

func (s Status) Validate() error {
	switch s {
	case Pending, Completed, Failed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

// WalletTransaction is a wallet top-up or payment tracked by Razorpay order id.
type WalletTransaction struct {
	id            kernel.UUID
	orderID       string
	paymentID     string
	userID        *kernel.UUID
	amountPaise   int64
	currency      string
	status        Status
	lastEvent     EventType
	method        string
	failureReason string

	isConstructed bool
}

// NewWalletTransaction starts a pending transaction for orderID.
func NewWalletTransaction(id kernel.UUID, orderID string, amountPaise int64, currency string) (*WalletTransaction, error) {
	tx := &WalletTransaction{
		status:        Pending,
		currency:      defaultCurrency,
		isConstructed: true,
	}

	if err := id.Validate(); err != nil {
		return nil, err
	}
	tx.id = id

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("order_id")
	}
	tx.orderID = orderID

	if amountPaise < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amountPaise))
	}
	tx.amountPaise = amountPaise

	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" {
		tx.currency = c
	}

	return tx, nil
}

// RestoreWalletTransaction rebuilds a persisted transaction.
func RestoreWalletTransaction(
	id kernel.UUID,
	orderID, paymentID string,
	userID *kernel.UUID,
	amountPaise int64,
	currency string,
	status Status,
	lastEvent EventType,
	method, failureReason string,
) (*WalletTransaction, error) {
	tx, err := NewWalletTransaction(id, orderID, amountPaise, currency)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	tx.paymentID = paymentID
	tx.userID = userID
	tx.status = status
	tx.lastEvent = lastEvent
	tx.method = method
	tx.failureReason = failureReason
	return tx, nil
}

// NewWalletTransactionFromEvent creates the transaction for an order seen for the first time.
func NewWalletTransactionFromEvent(id kernel.UUID, event Event) (*WalletTransaction, error) {
	tx, err := NewWalletTransaction(id, event.OrderID, event.AmountPaise, event.Currency)
	if err != nil {
		return nil, err
	}
	if err = tx.Apply(event); err != nil {
		return nil, err
	}
	return tx, nil
}

// Apply folds a webhook event into the transaction. Events for another order are
// rejected. A completed transaction ignores a later failure so that retried or
// out-of-order deliveries cannot undo a capture.
func (t *WalletTransaction) Apply(event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.OrderID != t.orderID {
		return errs.NewValueIsInvalidErrorWithCause(
			"order_id", fmt.Errorf("event for %s applied to %s", event.OrderID, t.orderID))
	}

	target, err := event.Type.TargetStatus()
	if err != nil {
		return err
	}

	if t.status == Completed && target == Failed {
		return nil
	}

	t.status = target
	t.lastEvent = event.Type
	if event.PaymentID != "" {
		t.paymentID = event.PaymentID
	}
	if event.AmountPaise > 0 {
		t.amountPaise = event.AmountPaise
	}
	if event.Method != "" {
		t.method = event.Method
	}
	if event.UserID != nil {
		t.userID = event.UserID
	}
	if target == Failed {
		t.failureReason = event.FailureReason
	} else {
		t.failureReason = ""
	}
	return nil
}

func (t *WalletTransaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrWalletTransactionIsNotConstructed
	}
	return nil
}

func (t *WalletTransaction) ID() kernel.UUID {
	return t.id
}

func (t *WalletTransaction) OrderID() string {
	return t.orderID
}

func (t *WalletTransaction) PaymentID() string {
	return t.paymentID
}

func (t *WalletTransaction) UserID() *kernel.UUID {
	return t.userID
}

func (t *WalletTransaction) AmountPaise() int64 {
	return t.amountPaise
}

func (t *WalletTransaction) Currency() string {
	return t.currency
}

func (t *WalletTransaction) Status() Status {
	return t.status
}

func (t *WalletTransaction) LastEvent() EventType {
	return t.lastEvent
}

func (t *WalletTransaction) Method() string {
	return t.method
}

func (t *WalletTransaction) FailureReason() string {
	return t.failureReason
}
