package repository

import (
	"context"
	"testing"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one writer: keeps every connection on the same in-memory database and
	// serializes access the way sqlite requires
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Order{},
		&model.Transaction{},
		&model.RevenueSplit{},
		&model.EmailLog{},
		&model.WebhookEvent{},
	))

	return db
}

func seedOrder(t *testing.T, db *gorm.DB, orderCode string, amountPaise int64, status string) *model.Order {
	t.Helper()

	order := &model.Order{
		OrderCode:   orderCode,
		PatientName: "Test Patient",
		AmountPaise: amountPaise,
		Currency:    "INR",
		Status:      status,
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), db, order))
	return order
}

func seedTransaction(t *testing.T, db *gorm.DB, id, orderCode, gatewayOrderID string, amountPaise int64) *model.Transaction {
	t.Helper()

	transaction := &model.Transaction{
		ID:             id,
		OrderCode:      orderCode,
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: gatewayOrderID,
		Status:         model.TransactionStatusInitiated,
		AmountPaise:    amountPaise,
		Currency:       "INR",
	}
	require.NoError(t, NewTransactionRepository(db).Create(context.Background(), db, transaction))
	return transaction
}
