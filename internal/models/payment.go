package models

import "time"

// PaymentStatus reflects the gateway's confirmation outcome.
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment persists a confirmation received from the payment gateway
// collaborator.
type Payment struct {
	ID         string        `db:"id" json:"id"`
	OrderID    string        `db:"order_id" json:"order_id"`
	PaymentKey string        `db:"payment_key" json:"payment_key"`
	Amount     int64         `db:"amount" json:"amount"`
	Status     PaymentStatus `db:"status" json:"status"`
	UserID     string        `db:"user_id" json:"user_id"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}
