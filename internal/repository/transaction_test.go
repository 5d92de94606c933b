package repository

import (
	"context"
	"testing"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTerminal_WriteOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)
	seedTransaction(t, db, "tx-1", "ES1", "order_gw_1", 10000)

	applied, err := repo.ApplyTerminal(ctx, db, "tx-1", model.TransactionStatusSuccess, "pay_1", "sig_1")
	require.NoError(t, err)
	assert.True(t, applied)

	// second terminal write must lose, whatever the outcome
	applied, err = repo.ApplyTerminal(ctx, db, "tx-1", model.TransactionStatusFailed, "pay_2", "")
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.FindByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusSuccess, got.Status)
	assert.Equal(t, "pay_1", got.GatewayPaymentID)
	assert.Equal(t, "sig_1", got.GatewaySignature)
}

func TestSaveRawPayload_LastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)
	seedTransaction(t, db, "tx-1", "ES1", "order_gw_1", 10000)

	require.NoError(t, repo.SaveRawPayload(ctx, db, "tx-1", `{"attempt":1}`))

	applied, err := repo.ApplyTerminal(ctx, db, "tx-1", model.TransactionStatusSuccess, "pay_1", "sig")
	require.NoError(t, err)
	require.True(t, applied)

	// audit blob keeps updating even after the status is terminal
	require.NoError(t, repo.SaveRawPayload(ctx, db, "tx-1", `{"attempt":2}`))

	got, err := repo.FindByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, `{"attempt":2}`, got.RawPayload)
	assert.Equal(t, model.TransactionStatusSuccess, got.Status)
}

func TestFindByGatewayOrderID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)
	seedTransaction(t, db, "tx-1", "ES1", "order_gw_1", 10000)

	got, err := repo.FindByGatewayOrderID(ctx, "order_gw_1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", got.ID)

	_, err = repo.FindByGatewayOrderID(ctx, "order_gw_missing")
	assert.Error(t, err)
}
