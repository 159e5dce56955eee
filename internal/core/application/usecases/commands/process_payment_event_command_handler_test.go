package commands_test

import (
	"errors"
	"testing"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func paymentCommand(t *testing.T, typ payment.EventType) commands.ProcessPaymentEventCommand {
	t.Helper()
	cmd, err := commands.NewProcessPaymentEventCommand(payment.Event{
		Type:        typ,
		OrderID:     "order_NxT7f3",
		PaymentID:   "pay_29QQoUBi66xm2f",
		AmountPaise: 50000,
		Currency:    "INR",
	})
	require.NoError(t, err)
	return cmd
}

func TestProcessPaymentEventCommandHandler_Handle_NewOrder(t *testing.T) {
	ctx := t.Context()
	cmd := paymentCommand(t, payment.EventPaymentCaptured)

	repo := new(MockWalletTransactionRepository)
	uow := new(MockUoW)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WalletTransactionRepository").Return(repo).Once(),
		repo.On("GetByOrderIDForUpdate", ctx, "order_NxT7f3").
			Return(nil, errs.NewObjectNotFoundError("orderId", "order_NxT7f3")).Once(),
		repo.On("Save", ctx, mock.MatchedBy(func(tx *payment.WalletTransaction) bool {
			return tx.Status() == payment.Completed && tx.PaymentID() == "pay_29QQoUBi66xm2f"
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, "payment.completed", mock.AnythingOfType("commands.PaymentStatusEvent")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewProcessPaymentEventCommandHandler(paymentFactory{factory}, publisher, fixedClock, nil)
	status, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payment.Completed, status)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProcessPaymentEventCommandHandler_Handle_LateFailureKeepsCompleted(t *testing.T) {
	ctx := t.Context()
	existing, err := payment.RestoreWalletTransaction(kernel.NewUUID(), "order_NxT7f3", "pay_29QQoUBi66xm2f",
		nil, 50000, "INR", payment.Completed, payment.EventPaymentCaptured, "upi", "")
	require.NoError(t, err)
	cmd := paymentCommand(t, payment.EventPaymentFailed)

	repo := new(MockWalletTransactionRepository)
	uow := new(MockUoW)
	publisher := new(MockPublisher)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WalletTransactionRepository").Return(repo).Once()
	repo.On("GetByOrderIDForUpdate", ctx, "order_NxT7f3").Return(existing, nil).Once()
	repo.On("Save", ctx, existing).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher.On("Publish", ctx, "payment.completed", mock.Anything).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewProcessPaymentEventCommandHandler(paymentFactory{factory}, publisher, fixedClock, nil)
	status, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payment.Completed, status)
	assert.Equal(t, payment.Completed, existing.Status())
}

func TestProcessPaymentEventCommandHandler_Handle_SaveErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	cmd := paymentCommand(t, payment.EventOrderPaid)

	repo := new(MockWalletTransactionRepository)
	uow := new(MockUoW)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WalletTransactionRepository").Return(repo).Once(),
		repo.On("GetByOrderIDForUpdate", ctx, "order_NxT7f3").
			Return(nil, errs.NewObjectNotFoundError("orderId", "order_NxT7f3")).Once(),
		repo.On("Save", ctx, mock.Anything).Return(errors.New("connection refused")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewProcessPaymentEventCommandHandler(paymentFactory{factory}, publisher, fixedClock, nil)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestNewProcessPaymentEventCommand_RejectsMissingOrder(t *testing.T) {
	_, err := commands.NewProcessPaymentEventCommand(payment.Event{Type: payment.EventPaymentCaptured})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
