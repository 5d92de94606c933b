package repository

import (
	"context"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByOrderCode(ctx context.Context, orderCode string) (*model.Order, error)
	MarkPending(ctx context.Context, tx *gorm.DB, orderCode string) error
	// MarkPaid moves the order to PAID and stamps paid_at. Returns false when
	// another writer already did: the conditional update makes the first
	// writer win across instances, no in-process locks involved.
	MarkPaid(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error)
	MarkRefunded(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByOrderCode(ctx context.Context, orderCode string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_code = ?", orderCode).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) MarkPending(ctx context.Context, tx *gorm.DB, orderCode string) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_code = ? AND status = ?", orderCode, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusPending,
			"updated_at": time.Now(),
		}).Error
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where(`
			order_code = ?
			AND status IN ?
		`,
			orderCode,
			[]string{model.OrderStatusCreated, model.OrderStatusPending},
		).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusPaid,
			"paid_at":    time.Now(),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_code = ? AND status IN ?",
			orderCode,
			[]string{model.OrderStatusCreated, model.OrderStatusPending},
		).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusFailed,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) MarkRefunded(ctx context.Context, tx *gorm.DB, orderCode string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_code = ? AND status = ?", orderCode, model.OrderStatusPaid).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusRefunded,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
