package ports

import (
	"context"

	"parcelbridge/internal/core/domain/model/payment"
)

type WalletTransactionRepository interface {
	// GetByOrderIDForUpdate returns errs.ErrObjectNotFound for an unseen order.
	GetByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.WalletTransaction, error)

	// Save inserts the transaction or updates the row with the same order id.
	Save(ctx context.Context, tx *payment.WalletTransaction) error
}
