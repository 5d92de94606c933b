package handler

import (
	"errors"
	"net/http"

	"github.com/inditecg-developers/EmoscreenPaid/internal/dto"
	"github.com/inditecg-developers/EmoscreenPaid/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, c.Param("orderCode"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	resp := &dto.OrderResponse{
		OrderCode:   order.OrderCode,
		PatientName: order.PatientName,
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		Status:      order.Status,
	}
	if order.PaidAt != nil {
		resp.PaidAt = order.PaidAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) BeginCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.orderService.BeginCheckout(ctx, c.Param("orderCode"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) MarkRefunded(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.MarkRefunded(ctx, c.Param("orderCode")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "REFUNDED"})
}
