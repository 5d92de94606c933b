package repository

import (
	"context"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevenueSplitRepository interface {
	// CreateAll inserts the computed shares. The (transaction_id, party)
	// unique index plus ON CONFLICT DO NOTHING makes a retried call a no-op.
	CreateAll(ctx context.Context, tx *gorm.DB, splits []*model.RevenueSplit) error
	FindByTransactionID(ctx context.Context, transactionID string) ([]*model.RevenueSplit, error)
	CountForTransaction(ctx context.Context, transactionID string) (int64, error)
}

type revenueSplitRepoImpl struct {
	db *gorm.DB
}

func NewRevenueSplitRepository(db *gorm.DB) RevenueSplitRepository {
	return &revenueSplitRepoImpl{
		db: db,
	}
}

func (r *revenueSplitRepoImpl) CreateAll(ctx context.Context, tx *gorm.DB, splits []*model.RevenueSplit) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}, {Name: "party"}},
		DoNothing: true,
	}).Create(&splits).Error
}

func (r *revenueSplitRepoImpl) FindByTransactionID(ctx context.Context, transactionID string) ([]*model.RevenueSplit, error) {
	var splits []*model.RevenueSplit
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("party").
		Find(&splits).Error

	if err != nil {
		return nil, err
	}

	return splits, nil
}

func (r *revenueSplitRepoImpl) CountForTransaction(ctx context.Context, transactionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevenueSplit{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error

	return count, err
}
