package repository

import (
	"context"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"gorm.io/gorm"
)

// WebhookEventRepository is the idempotency store: it answers whether a
// gateway event already produced its effects, keyed by (source, event id).
type WebhookEventRepository interface {
	Exists(ctx context.Context, source, eventID string) (bool, error)
	// MarkProcessed must run inside the same DB transaction as the ledger
	// write so a crash between the two cannot duplicate effects on
	// redelivery: either both land or neither does.
	MarkProcessed(ctx context.Context, tx *gorm.DB, source, eventID, eventType string) error
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{db: db}
}

func (r *webhookEventRepoImpl) Exists(ctx context.Context, source, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("source = ? AND event_id = ?", source, eventID).
		Count(&count).Error

	return count > 0, err
}

func (r *webhookEventRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, source, eventID, eventType string) error {
	return tx.WithContext(ctx).Create(&model.WebhookEvent{
		Source:      source,
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}).Error
}
