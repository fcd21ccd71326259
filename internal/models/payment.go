package models

import "time"

const (
	// PaymentStatusPaid marks a successfully settled payment.
	PaymentStatusPaid = "Paid"
	// PaymentStatusFailed marks a payment the provider reported as failed.
	PaymentStatusFailed = "Failed"

	// PaymentProviderSystem is the synthetic provider used for credit redemptions.
	PaymentProviderSystem = "System"
	// PaymentMethodCredit is the method recorded when a free-session credit pays for a session.
	PaymentMethodCredit = "Credit"
)

// Payment records one settlement attempt for a session. TransactionID is the
// provider's identifier and must be unique so duplicate webhook deliveries
// stay idempotent.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"payment_id"`
	SessionID     uint      `gorm:"not null;index" json:"session_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"size:8;not null" json:"currency"`
	Status        string    `gorm:"size:16;not null" json:"payment_status"`
	Method        string    `gorm:"size:32" json:"payment_method"`
	Provider      string    `gorm:"size:32" json:"provider"`
	TransactionID string    `gorm:"size:128;uniqueIndex;not null" json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}
