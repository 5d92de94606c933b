package server

import (
	"net/http"

	"github.com/inditecg-developers/EmoscreenPaid/internal/handler"
	custommw "github.com/inditecg-developers/EmoscreenPaid/internal/middleware"
	"github.com/inditecg-developers/EmoscreenPaid/internal/service"
	"github.com/inditecg-developers/EmoscreenPaid/internal/token"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
	linkIssuer     *token.Issuer
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(
	orderService service.OrderService,
	engine service.ReconciliationEngine,
	mailerService service.MailerService,
	linkIssuer *token.Issuer,
) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &requestValidator{validate: validator.New()}

	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(engine, mailerService)

	s := &Server{
		echo:           e,
		orderHandler:   orderHandler,
		paymentHandler: paymentHandler,
		linkIssuer:     linkIssuer,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders/:orderCode", s.orderHandler.GetOrder)
	api.POST("/orders/:orderCode/refund", s.orderHandler.MarkRefunded)
	api.POST("/notifications/delivery", s.paymentHandler.DeliveryReport)

	// -------- patient payment link (token guarded) --------
	paid := s.echo.Group("/paid/orders/:orderCode", custommw.LinkToken(s.linkIssuer))
	paid.POST("/checkout", s.orderHandler.BeginCheckout)

	// -------- gateway webhooks / callbacks --------
	payments := s.echo.Group("/payments/razorpay")
	payments.POST("/callback/:orderCode", s.paymentHandler.CheckoutReturn)
	payments.POST("/webhook/", s.paymentHandler.Webhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
