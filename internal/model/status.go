package model

const (
	OrderStatusCreated  = "CREATED"
	OrderStatusPending  = "PENDING"
	OrderStatusPaid     = "PAID"
	OrderStatusFailed   = "FAILED"
	OrderStatusRefunded = "REFUNDED"
)

const (
	TransactionStatusInitiated = "INITIATED"
	TransactionStatusSuccess   = "SUCCESS"
	TransactionStatusFailed    = "FAILED"
)

const (
	PartyInditech  = "INDITECH"
	PartyEquipoise = "EQUIPOISE"
)

const (
	EmailStatusQueued = "QUEUED"
	EmailStatusSent   = "SENT"
	EmailStatusFailed = "FAILED"
)

const (
	EmailTypePaymentLink   = "PAYMENT_LINK"
	EmailTypePatientReport = "PATIENT_REPORT"
	EmailTypeDoctorReport  = "DOCTOR_REPORT"
)

const (
	EventSourceWebhook  = "webhook"
	EventSourceCallback = "callback"
)

const GatewayRazorpay = "razorpay"
