package service

import (
	"context"
	"testing"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_DeliveryLifecycle(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	trans := f.seedPendingOrder(t, "ES1", "order_gw_1", 10000)

	// queued by a successful reconciliation
	err := f.engine.HandleCheckoutReturn(ctx, "ES1", "order_gw_1", "pay_1", checkoutSig("order_gw_1", "pay_1"))
	require.NoError(t, err)
	require.Equal(t, 1, f.queue.callCount())

	var entry model.EmailLog
	require.NoError(t, f.db.Where("transaction_id = ?", trans.ID).First(&entry).Error)
	assert.Equal(t, model.EmailStatusQueued, entry.Status)
	assert.Equal(t, "msg-1", entry.MessageID)
	assert.Equal(t, "asha@example.com", entry.ToEmail)

	mailer := NewMailerService(f.db, f.queue, f.emails, testLogger())

	// queue reports delivery asynchronously
	require.NoError(t, mailer.RecordDeliveryStatus(ctx, "msg-1", model.EmailStatusSent, ""))
	require.NoError(t, f.db.Where("transaction_id = ?", trans.ID).First(&entry).Error)
	assert.Equal(t, model.EmailStatusSent, entry.Status)

	// a late FAILED for an already delivered message is recorded as reported
	require.NoError(t, mailer.RecordDeliveryStatus(ctx, "msg-1", model.EmailStatusFailed, "bounced"))
	require.NoError(t, f.db.Where("transaction_id = ?", trans.ID).First(&entry).Error)
	assert.Equal(t, model.EmailStatusFailed, entry.Status)
	assert.Equal(t, "bounced", entry.ErrorText)

	assert.Error(t, mailer.RecordDeliveryStatus(ctx, "msg-1", "BOUNCED", ""))
}

func TestMailer_NoEmailWhenPatientHasNone(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, f.orders.Create(ctx, f.db, &model.Order{
		OrderCode:   "ES9",
		PatientName: "No Email",
		AmountPaise: 5000,
		Currency:    "INR",
		Status:      model.OrderStatusPending,
	}))
	require.NoError(t, f.txs.Create(ctx, f.db, &model.Transaction{
		ID:             "tx-ES9",
		OrderCode:      "ES9",
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: "order_gw_9",
		Status:         model.TransactionStatusInitiated,
		AmountPaise:    5000,
		Currency:       "INR",
	}))

	err := f.engine.HandleCheckoutReturn(ctx, "ES9", "order_gw_9", "pay_9", checkoutSig("order_gw_9", "pay_9"))
	require.NoError(t, err)

	// payment still reconciles fully, just without a notification
	order, err := f.orders.FindByOrderCode(ctx, "ES9")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, 0, f.queue.callCount())
}
