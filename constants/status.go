package constants

import "time"

// Order status (do backend quyết định)
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusRejected  = "rejected"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// Order kind
const (
	OrderKindBuy    = "buy"
	OrderKindRent   = "rent"
	OrderKindCourse = "course"
)

// Payment method
const (
	PaymentMethodCOD = "COD"
	PaymentMethodQR  = "QR"
)

// Session step
const (
	StepSelect    = "select"
	StepQR        = "qr"
	StepSuccess   = "success"
	StepExpired   = "expired"
	StepCancelled = "cancelled"
)

// Chu kỳ timer của phiên thanh toán QR
const (
	CountdownInterval = 1 * time.Second
	PollInterval      = 5 * time.Second
)
