package dto

// ConfirmPaymentRequest captures the POST /payments payload.
type ConfirmPaymentRequest struct {
	PaymentKey string `json:"paymentKey" validate:"required"`
	OrderID    string `json:"orderId" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

// ConfirmPaymentResponse mirrors the gateway confirmation payload.
type ConfirmPaymentResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}
