package wallettxrepo

import (
	"context"
	"errors"
	"strings"

	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletTransactionRepository implements ports.WalletTransactionRepository.
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

func (r *GormWalletTransactionRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.WalletTransaction, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("order_id")
	}

	var dto WalletTransactionDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order_id", orderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts by order id. A row that is already completed only accepts another
// completed state, so two first deliveries racing past the row lock cannot
// overwrite a capture with a failure.
func (r *GormWalletTransactionRepository) Save(ctx context.Context, tx *payment.WalletTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := fromDomain(tx)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"payment_id", "user_id", "amount_paise", "currency", "status",
				"last_event", "method", "failure_reason", "updated_at",
			}),
			Where: clause.Where{Exprs: []clause.Expression{clause.Expr{
				SQL:  "wallet_transactions.status <> ? OR excluded.status = ?",
				Vars: []any{string(payment.Completed), string(payment.Completed)},
			}}},
		}).
		Create(&dto).Error
}
