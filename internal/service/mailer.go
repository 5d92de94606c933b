package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inditecg-developers/EmoscreenPaid/internal/client"
	"github.com/inditecg-developers/EmoscreenPaid/internal/model"
	"github.com/inditecg-developers/EmoscreenPaid/internal/repository"

	"gorm.io/gorm"
)

type MailerService interface {
	// QueuePaymentLink logs the pre-payment link email for a freshly
	// prescribed order.
	QueuePaymentLink(ctx context.Context, order *model.Order) (uint, error)
	// QueueAssessmentLink logs the post-payment email inside the caller's DB
	// transaction, so the row commits (or rolls back) with the ledger write.
	QueueAssessmentLink(ctx context.Context, tx *gorm.DB, order *model.Order, transactionID string) (uint, error)
	// Dispatch hands a logged email to the external queue. Runs after
	// commit; failures are recorded on the log row and never propagate into
	// reconciliation.
	Dispatch(ctx context.Context, emailLogID uint)
	// RecordDeliveryStatus stores the queue's asynchronously reported
	// SENT/FAILED outcome.
	RecordDeliveryStatus(ctx context.Context, messageID, status, errorText string) error
}

type mailerServiceImpl struct {
	db           *gorm.DB
	queue        client.NotificationQueue
	emailLogRepo repository.EmailLogRepository
	logger       *slog.Logger
}

func NewMailerService(
	db *gorm.DB,
	queue client.NotificationQueue,
	emailLogRepo repository.EmailLogRepository,
	logger *slog.Logger,
) MailerService {
	return &mailerServiceImpl{
		db:           db,
		queue:        queue,
		emailLogRepo: emailLogRepo,
		logger:       logger,
	}
}

func (m *mailerServiceImpl) QueuePaymentLink(ctx context.Context, order *model.Order) (uint, error) {
	entry := &model.EmailLog{
		OrderCode: order.OrderCode,
		EmailType: model.EmailTypePaymentLink,
		ToEmail:   order.PatientEmail,
		Subject:   "EmoScreen Payment Link",
		Status:    model.EmailStatusQueued,
	}
	if err := m.emailLogRepo.Create(ctx, m.db, entry); err != nil {
		return 0, fmt.Errorf("log payment link email: %w", err)
	}
	return entry.ID, nil
}

func (m *mailerServiceImpl) QueueAssessmentLink(ctx context.Context, tx *gorm.DB, order *model.Order, transactionID string) (uint, error) {
	entry := &model.EmailLog{
		OrderCode:     order.OrderCode,
		TransactionID: transactionID,
		EmailType:     model.EmailTypePatientReport,
		ToEmail:       order.PatientEmail,
		Subject:       "EmoScreen Assessment Link",
		Status:        model.EmailStatusQueued,
	}
	if err := m.emailLogRepo.Create(ctx, tx, entry); err != nil {
		return 0, fmt.Errorf("log assessment link email: %w", err)
	}
	return entry.ID, nil
}

func (m *mailerServiceImpl) Dispatch(ctx context.Context, emailLogID uint) {
	entry, err := m.emailLogRepo.FindByID(ctx, emailLogID)
	if err != nil {
		m.logger.Error("load email log for dispatch", "email_log_id", emailLogID, "error", err)
		return
	}

	result, err := m.queue.Enqueue(ctx, &client.EnqueueRequest{
		TransactionRef: entry.TransactionID,
		Template:       templateForEmailType(entry.EmailType),
		ToEmail:        entry.ToEmail,
		Subject:        entry.Subject,
	})
	if err != nil {
		m.logger.Error("notification enqueue failed", "email_log_id", emailLogID, "error", err)
		if markErr := m.emailLogRepo.MarkDispatchFailed(ctx, emailLogID, err.Error()); markErr != nil {
			m.logger.Error("mark email log failed", "email_log_id", emailLogID, "error", markErr)
		}
		return
	}

	if err := m.emailLogRepo.SetMessageID(ctx, emailLogID, result.MessageID); err != nil {
		m.logger.Error("store queue message id", "email_log_id", emailLogID, "error", err)
	}
}

func (m *mailerServiceImpl) RecordDeliveryStatus(ctx context.Context, messageID, status, errorText string) error {
	switch status {
	case model.EmailStatusSent:
		return m.emailLogRepo.MarkDelivered(ctx, messageID)
	case model.EmailStatusFailed:
		return m.emailLogRepo.MarkFailed(ctx, messageID, errorText)
	default:
		return fmt.Errorf("unknown delivery status %q", status)
	}
}

func templateForEmailType(emailType string) string {
	switch emailType {
	case model.EmailTypePaymentLink:
		return "payment_link"
	case model.EmailTypePatientReport:
		return "assessment_link"
	case model.EmailTypeDoctorReport:
		return "doctor_report"
	default:
		return "generic"
	}
}
