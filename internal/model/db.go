package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the merchant-side purchase intent: one prescribed assessment,
// payable once through the gateway.
type Order struct {
	OrderCode       string `gorm:"primaryKey;size:32;not null"`
	PatientName     string `gorm:"size:255;not null"`
	PatientWhatsapp string `gorm:"size:32"`
	PatientEmail    string `gorm:"size:255"`
	AmountPaise     int64  `gorm:"not null"` // final amount, minor units
	Currency        string `gorm:"size:8;not null"`
	Status          string `gorm:"size:32;index;not null"` // CREATED, PENDING, PAID, FAILED, REFUNDED
	LinkTokenHash   string `gorm:"size:128"`
	LinkExpiresAt   time.Time
	// set exactly once, at the PAID transition
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is one gateway payment attempt against an Order. Terminal
// status is write-once; RawPayload is overwritten by every signal, including
// duplicates, and never parsed.
type Transaction struct {
	ID               string `gorm:"primaryKey;size:64;not null"`
	OrderCode        string `gorm:"size:32;index;not null"`
	Gateway          string `gorm:"size:32;not null"`
	GatewayOrderID   string `gorm:"size:128;uniqueIndex;not null"`
	GatewayPaymentID string `gorm:"size:128;index"` // empty until captured
	GatewaySignature string `gorm:"size:256"`
	Status           string `gorm:"size:16;index;not null"` // INITIATED, SUCCESS, FAILED
	AmountPaise      int64  `gorm:"not null"`
	Currency         string `gorm:"size:8;not null"`
	RawPayload       string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RevenueSplit holds one party's share of a captured payment. Two rows per
// SUCCESS transaction; the unique index makes retried creation a no-op.
type RevenueSplit struct {
	ID            uint            `gorm:"primaryKey"`
	TransactionID string          `gorm:"size:64;uniqueIndex:idx_split_tx_party;not null"`
	Party         string          `gorm:"size:16;uniqueIndex:idx_split_tx_party;not null"` // INDITECH, EQUIPOISE
	Percent       decimal.Decimal `gorm:"type:decimal(5,2)"`
	AmountPaise   int64           `gorm:"not null"`
	CreatedAt     time.Time
}

// EmailLog is one row per notification attempt. Multiple rows may exist per
// transaction across retries, but only one initial attempt is queued per
// successful transition.
type EmailLog struct {
	ID            uint   `gorm:"primaryKey"`
	OrderCode     string `gorm:"size:32;index"`
	TransactionID string `gorm:"size:64;index"`
	EmailType     string `gorm:"size:32"` // PAYMENT_LINK, PATIENT_REPORT, DOCTOR_REPORT
	ToEmail       string `gorm:"size:255;not null"`
	Subject       string `gorm:"size:255"`
	MessageID     string `gorm:"size:128;index"` // queue-assigned, set after enqueue
	Status        string `gorm:"size:16;not null"` // QUEUED, SENT, FAILED
	ErrorText     string `gorm:"type:text"`
	CreatedAt     time.Time
}

// WebhookEvent records which gateway events already produced their effects.
// Rows are inserted in the same DB transaction as the ledger write and never
// mutated afterwards.
type WebhookEvent struct {
	Source      string `gorm:"primaryKey;size:16;not null"`
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
