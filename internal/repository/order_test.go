package repository

import (
	"context"
	"testing"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaid_FirstWriterWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)

	applied, err := repo.MarkPaid(ctx, db, "ES1")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.MarkPaid(ctx, db, "ES1")
	require.NoError(t, err)
	assert.False(t, applied, "already PAID must be a no-op")

	got, err := repo.FindByOrderCode(ctx, "ES1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)

	// paid_at is stamped exactly once
	firstPaidAt := *got.PaidAt
	_, err = repo.MarkPaid(ctx, db, "ES1")
	require.NoError(t, err)
	got, err = repo.FindByOrderCode(ctx, "ES1")
	require.NoError(t, err)
	assert.Equal(t, firstPaidAt, *got.PaidAt)
}

func TestMarkFailed_OnlyFromNonTerminal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)

	applied, err := repo.MarkFailed(ctx, db, "ES1")
	require.NoError(t, err)
	assert.True(t, applied)

	// FAILED is terminal; a late paid signal must not resurrect the order
	applied, err = repo.MarkPaid(ctx, db, "ES1")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestMarkRefunded_RequiresPaid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ES1", 10000, model.OrderStatusPending)

	applied, err := repo.MarkRefunded(ctx, db, "ES1")
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = repo.MarkPaid(ctx, db, "ES1")
	require.NoError(t, err)

	applied, err = repo.MarkRefunded(ctx, db, "ES1")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestWebhookEventRepository_Dedupe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookEventRepository(db)
	ctx := context.Background()

	seen, err := repo.Exists(ctx, model.EventSourceWebhook, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, repo.MarkProcessed(ctx, db, model.EventSourceWebhook, "evt_1", "payment.captured"))

	seen, err = repo.Exists(ctx, model.EventSourceWebhook, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	// same event id under a different source is a different key
	seen, err = repo.Exists(ctx, model.EventSourceCallback, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	// a second insert for the same key must violate the primary key
	assert.Error(t, repo.MarkProcessed(ctx, db, model.EventSourceWebhook, "evt_1", "payment.captured"))
}

func TestRevenueSplitRepository_IdempotentCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueSplitRepository(db)
	ctx := context.Background()

	splits := []*model.RevenueSplit{
		{TransactionID: "tx-1", Party: model.PartyInditech, AmountPaise: 5000},
		{TransactionID: "tx-1", Party: model.PartyEquipoise, AmountPaise: 5000},
	}

	require.NoError(t, repo.CreateAll(ctx, db, splits))

	// retried creation is a no-op thanks to the unique index
	retry := []*model.RevenueSplit{
		{TransactionID: "tx-1", Party: model.PartyInditech, AmountPaise: 9999},
		{TransactionID: "tx-1", Party: model.PartyEquipoise, AmountPaise: 1},
	}
	require.NoError(t, repo.CreateAll(ctx, db, retry))

	count, err := repo.CountForTransaction(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.FindByTransactionID(ctx, "tx-1")
	require.NoError(t, err)
	for _, s := range got {
		assert.Equal(t, int64(5000), s.AmountPaise)
	}
}
