package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/pkg/errs"
)

// ProcessPaymentEventCommandHandler upserts the wallet transaction for the
// event's order. Deliveries may repeat or arrive out of order; the aggregate
// keeps a completed transaction completed.
type ProcessPaymentEventCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  eventPublisher
	clock      Clock
	logger     *slog.Logger
}

func NewProcessPaymentEventCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher eventPublisher,
	clock Clock,
	logger *slog.Logger,
) ProcessPaymentEventCommandHandler {
	return ProcessPaymentEventCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clockOrDefault(clock),
		logger:     loggerOrDefault(logger, "ProcessPaymentEventCommandHandler"),
	}
}

// Handle returns the transaction status after the event.
func (h ProcessPaymentEventCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentEventCommand) (payment.Status, error) {
	if err := cmd.Validate(); err != nil {
		return payment.StatusUnknown, err
	}
	event := cmd.Event()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return payment.StatusUnknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WalletTransactionRepository()

	tx, err := repo.GetByOrderIDForUpdate(ctx, event.OrderID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		tx, err = payment.NewWalletTransactionFromEvent(kernel.NewUUID(), event)
		if err != nil {
			return payment.StatusUnknown, err
		}
	case err != nil:
		return payment.StatusUnknown, err
	default:
		if err = tx.Apply(event); err != nil {
			return payment.StatusUnknown, err
		}
	}

	if err = repo.Save(ctx, tx); err != nil {
		return payment.StatusUnknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return payment.StatusUnknown, err
	}

	h.logger.InfoContext(ctx, "payment event applied",
		"event", string(event.Type), "order_id", tx.OrderID(), "status", string(tx.Status()))

	publishAfterCommit(ctx, h.publisher, h.logger, SubjectPaymentPrefix+string(tx.Status()), PaymentStatusEvent{
		OrderID:     tx.OrderID(),
		PaymentID:   tx.PaymentID(),
		Status:      string(tx.Status()),
		AmountPaise: tx.AmountPaise(),
		OccurredAt:  h.clock().UTC().Truncate(time.Second),
	})

	return tx.Status(), nil
}
