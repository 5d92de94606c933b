package repository

import (
	"context"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Transaction, error)
	// ApplyTerminal flips an INITIATED transaction to SUCCESS or FAILED.
	// Write-once: the guard on the current status means exactly one caller
	// observes applied=true, no matter how many signals race.
	ApplyTerminal(ctx context.Context, tx *gorm.DB, id, status, gatewayPaymentID, gatewaySignature string) (bool, error)
	// SaveRawPayload overwrites the audit blob. Called on every signal,
	// duplicates included; last write wins.
	SaveRawPayload(ctx context.Context, tx *gorm.DB, id, rawPayload string) error
}

type transactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepoImpl{
		db: db,
	}
}

func (r *transactionRepoImpl) Create(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepoImpl) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) ApplyTerminal(ctx context.Context, tx *gorm.DB, id, status, gatewayPaymentID, gatewaySignature string) (bool, error) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if gatewayPaymentID != "" {
		updates["gateway_payment_id"] = gatewayPaymentID
	}
	if gatewaySignature != "" {
		updates["gateway_signature"] = gatewaySignature
	}

	result := tx.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusInitiated).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *transactionRepoImpl) SaveRawPayload(ctx context.Context, tx *gorm.DB, id, rawPayload string) error {
	return tx.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"raw_payload": rawPayload,
			"updated_at":  time.Now(),
		}).Error
}
