package repository

import (
	"context"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"gorm.io/gorm"
)

type EmailLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.EmailLog) error
	FindByID(ctx context.Context, id uint) (*model.EmailLog, error)
	SetMessageID(ctx context.Context, id uint, messageID string) error
	// MarkDelivered / MarkFailed record the queue's asynchronously reported
	// terminal status; the core never blocks waiting for it.
	MarkDelivered(ctx context.Context, messageID string) error
	MarkFailed(ctx context.Context, messageID, errorText string) error
	// MarkDispatchFailed records an enqueue that never reached the queue, so
	// there is no message id to key on yet.
	MarkDispatchFailed(ctx context.Context, id uint, errorText string) error
	CountForTransaction(ctx context.Context, transactionID string) (int64, error)
}

type emailLogRepoImpl struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepoImpl{
		db: db,
	}
}

func (r *emailLogRepoImpl) Create(ctx context.Context, tx *gorm.DB, entry *model.EmailLog) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *emailLogRepoImpl) FindByID(ctx context.Context, id uint) (*model.EmailLog, error) {
	var entry model.EmailLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *emailLogRepoImpl) SetMessageID(ctx context.Context, id uint, messageID string) error {
	return r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("id = ?", id).
		Update("message_id", messageID).Error
}

func (r *emailLogRepoImpl) MarkDelivered(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("message_id = ? AND status = ?", messageID, model.EmailStatusQueued).
		Update("status", model.EmailStatusSent).Error
}

func (r *emailLogRepoImpl) MarkFailed(ctx context.Context, messageID, errorText string) error {
	return r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"status":     model.EmailStatusFailed,
			"error_text": errorText,
		}).Error
}

func (r *emailLogRepoImpl) MarkDispatchFailed(ctx context.Context, id uint, errorText string) error {
	return r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.EmailStatusFailed,
			"error_text": errorText,
		}).Error
}

func (r *emailLogRepoImpl) CountForTransaction(ctx context.Context, transactionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error

	return count, err
}
