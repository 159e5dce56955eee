// Package wallettxrepo stores wallet transactions keyed by payment gateway order id.
package wallettxrepo

import (
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

type WalletTransactionDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       string     `gorm:"size:64;not null;uniqueIndex"`
	PaymentID     string     `gorm:"size:64"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	AmountPaise   int64      `gorm:"not null"`
	Currency      string     `gorm:"size:3;not null"`
	Status        string     `gorm:"size:16;not null"`
	LastEvent     string     `gorm:"size:32"`
	Method        string     `gorm:"size:32"`
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (WalletTransactionDTO) TableName() string {
	return "wallet_transactions"
}

func fromDomain(tx *payment.WalletTransaction) WalletTransactionDTO {
	var userID *uuid.UUID
	if id := tx.UserID(); id != nil {
		raw := id.Bytes()
		userID = &raw
	}

	return WalletTransactionDTO{
		ID:            tx.ID().Bytes(),
		OrderID:       tx.OrderID(),
		PaymentID:     tx.PaymentID(),
		UserID:        userID,
		AmountPaise:   tx.AmountPaise(),
		Currency:      tx.Currency(),
		Status:        string(tx.Status()),
		LastEvent:     string(tx.LastEvent()),
		Method:        tx.Method(),
		FailureReason: tx.FailureReason(),
	}
}

func toDomain(dto WalletTransactionDTO) (*payment.WalletTransaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var userID *kernel.UUID
	if dto.UserID != nil {
		uID, userErr := kernel.UUIDFromBytes((*dto.UserID)[:])
		if userErr != nil {
			return nil, userErr
		}
		userID = &uID
	}

	return payment.RestoreWalletTransaction(
		id,
		dto.OrderID,
		dto.PaymentID,
		userID,
		dto.AmountPaise,
		dto.Currency,
		payment.Status(dto.Status),
		payment.EventType(dto.LastEvent),
		dto.Method,
		dto.FailureReason,
	)
}
