package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inditecg-developers/EmoscreenPaid/internal/model"
	"github.com/inditecg-developers/EmoscreenPaid/internal/repository"
	"github.com/inditecg-developers/EmoscreenPaid/internal/signature"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconciliationEngine converges the two independent payment signals, the
// synchronous checkout-return callback and the at-least-once webhook stream,
// into one consistent Order/Transaction state. Side effects (revenue split,
// receipt email) happen exactly once per transaction no matter how many
// duplicated or reordered signals arrive: the terminal-status write is a
// conditional update and only the caller that wins it runs the effects.
type ReconciliationEngine interface {
	HandleCheckoutReturn(ctx context.Context, orderCode, gatewayOrderID, gatewayPaymentID, gatewaySignature string) error
	HandleWebhookEvent(ctx context.Context, rawBody []byte, signatureHeader string) error
}

type reconciliationEngineImpl struct {
	db                *gorm.DB
	verifier          *signature.Verifier
	orderRepo         repository.OrderRepository
	transactionRepo   repository.TransactionRepository
	splitRepo         repository.RevenueSplitRepository
	webhookEventRepo  repository.WebhookEventRepository
	mailer            MailerService
	firstPartyPercent decimal.Decimal
	logger            *slog.Logger
}

func NewReconciliationEngine(
	db *gorm.DB,
	verifier *signature.Verifier,
	orderRepo repository.OrderRepository,
	transactionRepo repository.TransactionRepository,
	splitRepo repository.RevenueSplitRepository,
	webhookEventRepo repository.WebhookEventRepository,
	mailer MailerService,
	firstPartyPercent decimal.Decimal,
	logger *slog.Logger,
) ReconciliationEngine {
	return &reconciliationEngineImpl{
		db:                db,
		verifier:          verifier,
		orderRepo:         orderRepo,
		transactionRepo:   transactionRepo,
		splitRepo:         splitRepo,
		webhookEventRepo:  webhookEventRepo,
		mailer:            mailer,
		firstPartyPercent: firstPartyPercent,
		logger:            logger,
	}
}

// Webhook event types form a closed set; anything else lands on
// eventUnrecognized and is accepted, recorded and ignored so new gateway
// event types never cause redelivery storms.
type eventType int

const (
	eventUnrecognized eventType = iota
	eventPaymentCaptured
	eventOrderPaid
	eventPaymentFailed
)

func parseEventType(s string) eventType {
	switch s {
	case "payment.captured":
		return eventPaymentCaptured
	case "order.paid":
		return eventOrderPaid
	case "payment.failed":
		return eventPaymentFailed
	default:
		return eventUnrecognized
	}
}

type webhookEnvelope struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID       string `json:"id"`
				OrderID  string `json:"order_id"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type eventRecord struct {
	id        string
	eventType string
}

func (e *reconciliationEngineImpl) HandleCheckoutReturn(ctx context.Context, orderCode, gatewayOrderID, gatewayPaymentID, gatewaySignature string) error {
	if !e.verifier.VerifyCheckoutSignature(gatewayOrderID, gatewayPaymentID, gatewaySignature) {
		e.logger.Warn("checkout signature rejected", "order_code", orderCode, "gateway_order_id", gatewayOrderID)
		return ErrSignatureInvalid
	}

	trans, err := e.transactionRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknownTransaction
	}
	if err != nil {
		return fmt.Errorf("find transaction by gateway order id: %w", err)
	}

	// replay/substitution guard: a valid signature for some other order must
	// not be accepted here; abort before any write
	if trans.OrderCode != orderCode {
		e.logger.Warn("checkout order mismatch",
			"order_code", orderCode, "transaction_order_code", trans.OrderCode)
		return ErrOrderMismatch
	}

	raw, _ := json.Marshal(map[string]string{
		"gateway_order_id":   gatewayOrderID,
		"gateway_payment_id": gatewayPaymentID,
		"gateway_signature":  gatewaySignature,
	})

	return e.applySuccess(ctx, trans, gatewayPaymentID, gatewaySignature, string(raw), 0, "", nil)
}

func (e *reconciliationEngineImpl) HandleWebhookEvent(ctx context.Context, rawBody []byte, signatureHeader string) error {
	if !e.verifier.VerifyWebhookSignature(rawBody, signatureHeader) {
		e.logger.Warn("webhook signature rejected")
		return ErrSignatureInvalid
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return ErrMalformedEvent
	}
	if env.ID == "" {
		return ErrMalformedEvent
	}

	// delivery is at-least-once; a duplicate is expected and must be a
	// harmless success so the gateway stops retrying
	seen, err := e.webhookEventRepo.Exists(ctx, model.EventSourceWebhook, env.ID)
	if err != nil {
		return fmt.Errorf("idempotency lookup: %w", err)
	}
	if seen {
		e.logger.Info("webhook event already processed", "event_id", env.ID, "event_type", env.Event)
		return nil
	}

	event := &eventRecord{id: env.ID, eventType: env.Event}

	switch parseEventType(env.Event) {
	case eventPaymentCaptured, eventOrderPaid:
		return e.handleCaptured(ctx, &env, rawBody, event)
	case eventPaymentFailed:
		return e.handleFailed(ctx, &env, rawBody, event)
	default:
		e.logger.Info("unrecognized webhook event accepted", "event_id", env.ID, "event_type", env.Event)
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return e.webhookEventRepo.MarkProcessed(ctx, tx, model.EventSourceWebhook, event.id, event.eventType)
		})
	}
}

func (e *reconciliationEngineImpl) handleCaptured(ctx context.Context, env *webhookEnvelope, rawBody []byte, event *eventRecord) error {
	entity := env.Payload.Payment.Entity
	if entity.OrderID == "" {
		return ErrMalformedEvent
	}

	trans, err := e.transactionRepo.FindByGatewayOrderID(ctx, entity.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the webhook can legitimately race ahead of local order creation
		// under clock skew; retriable, redelivery will land once the
		// transaction exists
		return ErrUnknownTransaction
	}
	if err != nil {
		return fmt.Errorf("find transaction by gateway order id: %w", err)
	}

	return e.applySuccess(ctx, trans, entity.ID, "", string(rawBody), entity.Amount, entity.Currency, event)
}

func (e *reconciliationEngineImpl) handleFailed(ctx context.Context, env *webhookEnvelope, rawBody []byte, event *eventRecord) error {
	entity := env.Payload.Payment.Entity
	if entity.OrderID == "" {
		return ErrMalformedEvent
	}

	trans, err := e.transactionRepo.FindByGatewayOrderID(ctx, entity.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknownTransaction
	}
	if err != nil {
		return fmt.Errorf("find transaction by gateway order id: %w", err)
	}

	// audit blob lands even when the terminal status turns out to be set
	if err := e.transactionRepo.SaveRawPayload(ctx, e.db, trans.ID, string(rawBody)); err != nil {
		return fmt.Errorf("save raw payload: %w", err)
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := e.transactionRepo.ApplyTerminal(ctx, tx, trans.ID, model.TransactionStatusFailed, entity.ID, "")
		if err != nil {
			return err
		}

		if err := e.webhookEventRepo.MarkProcessed(ctx, tx, model.EventSourceWebhook, event.id, event.eventType); err != nil {
			return err
		}

		if !applied {
			// terminal status is write-once: a late payment.failed after a
			// SUCCESS is ignored beyond the audit payload
			return nil
		}

		if _, err := e.orderRepo.MarkFailed(ctx, tx, trans.OrderCode); err != nil {
			return err
		}

		e.logger.Info("payment failure recorded",
			"order_code", trans.OrderCode, "transaction_id", trans.ID, "event_id", event.id)
		return nil
	})
}

// applySuccess is the single effect path shared by checkout-return and the
// captured/paid webhook events. signalAmount/signalCurrency are zero when the
// signal carries no amount of its own (checkout-return).
func (e *reconciliationEngineImpl) applySuccess(ctx context.Context, trans *model.Transaction, gatewayPaymentID, gatewaySignature, rawPayload string, signalAmount int64, signalCurrency string, event *eventRecord) error {
	if err := e.transactionRepo.SaveRawPayload(ctx, e.db, trans.ID, rawPayload); err != nil {
		return fmt.Errorf("save raw payload: %w", err)
	}

	order, err := e.orderRepo.FindByOrderCode(ctx, trans.OrderCode)
	if err != nil {
		return fmt.Errorf("load order %s: %w", trans.OrderCode, err)
	}

	// integrity check happens before the status write, never after: a
	// mismatched signal leaves the transaction non-terminal for manual review
	if trans.AmountPaise != order.AmountPaise || trans.Currency != order.Currency {
		return ErrAmountMismatch
	}
	if signalAmount != 0 && signalAmount != order.AmountPaise {
		return ErrAmountMismatch
	}
	if signalCurrency != "" && signalCurrency != order.Currency {
		return ErrAmountMismatch
	}

	var applied bool
	var emailLogID uint

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		applied, err = e.transactionRepo.ApplyTerminal(ctx, tx, trans.ID, model.TransactionStatusSuccess, gatewayPaymentID, gatewaySignature)
		if err != nil {
			return err
		}

		if event != nil {
			// same transactional scope as the ledger write: a crash between
			// the two cannot duplicate effects on redelivery
			if err := e.webhookEventRepo.MarkProcessed(ctx, tx, model.EventSourceWebhook, event.id, event.eventType); err != nil {
				return err
			}
		}

		if !applied {
			// the other signal already won; duplicate success, no effects
			return nil
		}

		if _, err := e.orderRepo.MarkPaid(ctx, tx, trans.OrderCode); err != nil {
			return err
		}

		splits := ComputeRevenueSplit(trans.ID, order.AmountPaise, e.firstPartyPercent)
		if err := e.splitRepo.CreateAll(ctx, tx, splits); err != nil {
			return err
		}

		if order.PatientEmail != "" {
			emailLogID, err = e.mailer.QueueAssessmentLink(ctx, tx, order, trans.ID)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if applied {
		e.logger.Info("payment reconciled",
			"order_code", trans.OrderCode,
			"transaction_id", trans.ID,
			"gateway_payment_id", gatewayPaymentID,
			"amount_paise", order.AmountPaise)
		if emailLogID != 0 {
			e.mailer.Dispatch(ctx, emailLogID)
		}
	}

	return nil
}
