package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/client"
	"github.com/inditecg-developers/EmoscreenPaid/internal/dto"
	"github.com/inditecg-developers/EmoscreenPaid/internal/model"
	"github.com/inditecg-developers/EmoscreenPaid/internal/repository"
	"github.com/inditecg-developers/EmoscreenPaid/internal/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	// CreateOrder registers a prescribed assessment and issues the signed
	// patient payment link.
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// BeginCheckout registers the order with the gateway and opens an
	// INITIATED transaction; the order moves to PENDING.
	BeginCheckout(ctx context.Context, orderCode string) (*dto.CheckoutResponse, error)
	GetOrder(ctx context.Context, orderCode string) (*model.Order, error)
	// MarkRefunded is a manual status write only; no gateway call is made.
	MarkRefunded(ctx context.Context, orderCode string) error
}

type orderServiceImpl struct {
	db              *gorm.DB
	gatewayClient   client.GatewayClient
	orderRepo       repository.OrderRepository
	transactionRepo repository.TransactionRepository
	mailer          MailerService
	issuer          *token.Issuer
	baseURL         string
	gatewayKeyID    string
	linkTTL         time.Duration
	logger          *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	orderRepo repository.OrderRepository,
	transactionRepo repository.TransactionRepository,
	mailer MailerService,
	issuer *token.Issuer,
	baseURL string,
	gatewayKeyID string,
	linkTTL time.Duration,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:              db,
		gatewayClient:   gatewayClient,
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		mailer:          mailer,
		issuer:          issuer,
		baseURL:         baseURL,
		gatewayKeyID:    gatewayKeyID,
		linkTTL:         linkTTL,
		logger:          logger,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	finalAmount := req.BaseAmountPaise - req.DiscountPaise
	if finalAmount <= 0 {
		return nil, fmt.Errorf("final amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	orderCode := "ES" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:24]

	linkToken, err := s.issuer.Issue(orderCode, finalAmount)
	if err != nil {
		return nil, fmt.Errorf("issue payment link token: %w", err)
	}

	order := &model.Order{
		OrderCode:       orderCode,
		PatientName:     req.PatientName,
		PatientWhatsapp: req.PatientWhatsapp,
		PatientEmail:    req.PatientEmail,
		AmountPaise:     finalAmount,
		Currency:        currency,
		Status:          model.OrderStatusCreated,
		LinkTokenHash:   token.Hash(linkToken),
		LinkExpiresAt:   time.Now().Add(s.linkTTL),
	}

	if err := s.orderRepo.Create(ctx, s.db, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	link := fmt.Sprintf("%s/paid/orders/%s/checkout?token=%s", s.baseURL, orderCode, linkToken)

	if order.PatientEmail != "" {
		emailLogID, err := s.mailer.QueuePaymentLink(ctx, order)
		if err != nil {
			s.logger.Error("queue payment link email", "order_code", orderCode, "error", err)
		} else {
			s.mailer.Dispatch(ctx, emailLogID)
		}
	}

	s.logger.Info("order created", "order_code", orderCode, "amount_paise", finalAmount)

	return &dto.CreateOrderResponse{
		OrderCode:   orderCode,
		AmountPaise: finalAmount,
		Currency:    currency,
		PaymentLink: link,
	}, nil
}

func (s *orderServiceImpl) BeginCheckout(ctx context.Context, orderCode string) (*dto.CheckoutResponse, error) {
	order, err := s.orderRepo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	if order.Status != model.OrderStatusCreated && order.Status != model.OrderStatusPending {
		return nil, fmt.Errorf("order %s is not payable in status %s", orderCode, order.Status)
	}
	if time.Now().After(order.LinkExpiresAt) {
		return nil, fmt.Errorf("payment link for order %s has expired", orderCode)
	}

	gatewayOrderID, err := s.gatewayClient.CreateOrder(ctx, orderCode, order.AmountPaise, order.Currency)
	if err != nil {
		return nil, fmt.Errorf("gateway create order: %w", err)
	}

	transaction := &model.Transaction{
		ID:             uuid.NewString(),
		OrderCode:      orderCode,
		Gateway:        model.GatewayRazorpay,
		GatewayOrderID: gatewayOrderID,
		Status:         model.TransactionStatusInitiated,
		AmountPaise:    order.AmountPaise,
		Currency:       order.Currency,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return fmt.Errorf("store transaction in db: %w", err)
		}
		if err := s.orderRepo.MarkPending(ctx, tx, orderCode); err != nil {
			return fmt.Errorf("mark order pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderCode:      orderCode,
		GatewayOrderID: gatewayOrderID,
		GatewayKeyID:   s.gatewayKeyID,
		AmountPaise:    order.AmountPaise,
		Currency:       order.Currency,
	}, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderCode string) (*model.Order, error) {
	return s.orderRepo.FindByOrderCode(ctx, orderCode)
}

func (s *orderServiceImpl) MarkRefunded(ctx context.Context, orderCode string) error {
	applied, err := s.orderRepo.MarkRefunded(ctx, s.db, orderCode)
	if err != nil {
		return fmt.Errorf("mark order refunded: %w", err)
	}
	if !applied {
		return fmt.Errorf("order %s is not PAID, refusing refund mark", orderCode)
	}

	s.logger.Info("order marked refunded", "order_code", orderCode)
	return nil
}
