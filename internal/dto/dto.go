package dto

type CreateOrderRequest struct {
	PatientName     string `json:"patient_name" validate:"required,max=255"`
	PatientWhatsapp string `json:"patient_whatsapp" validate:"required,max=32"`
	PatientEmail    string `json:"patient_email" validate:"omitempty,email"`
	BaseAmountPaise int64  `json:"base_amount_paise" validate:"required,gt=0"`
	DiscountPaise   int64  `json:"discount_paise" validate:"gte=0"`
	Currency        string `json:"currency" validate:"omitempty,len=3"`
}

type CreateOrderResponse struct {
	OrderCode   string `json:"order_code"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	PaymentLink string `json:"payment_link"`
}

type CheckoutResponse struct {
	OrderCode      string `json:"order_code"`
	GatewayOrderID string `json:"gateway_order_id"`
	GatewayKeyID   string `json:"gateway_key_id"`
	AmountPaise    int64  `json:"amount_paise"`
	Currency       string `json:"currency"`
}

type OrderResponse struct {
	OrderCode   string `json:"order_code"`
	PatientName string `json:"patient_name"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	PaidAt      string `json:"paid_at,omitempty"`
}

type DeliveryReportRequest struct {
	MessageID string `json:"message_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=SENT FAILED"`
	Error     string `json:"error"`
}
