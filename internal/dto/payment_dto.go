package dto

import (
	"time"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// PaymentWebhook is the notification payload the payment provider posts
// after a checkout completes. PayHere delivers it form-encoded with
// at-least-once semantics.
type PaymentWebhook struct {
	MerchantID    string `form:"merchant_id" json:"merchant_id" validate:"required"`
	OrderID       string `form:"order_id" json:"order_id" validate:"required"`
	StatusCode    string `form:"status_code" json:"status_code" validate:"required"`
	Amount        string `form:"payhere_amount" json:"payhere_amount"`
	Currency      string `form:"currency" json:"currency"`
	Method        string `form:"method" json:"method"`
	TransactionID string `form:"transaction_id" json:"transaction_id" validate:"required"`
}

// CheckoutRequest asks for a signed provider checkout payload for a session.
type CheckoutRequest struct {
	SessionID uint           `json:"session_id" validate:"required,gt=0"`
	Student   CheckoutBuyer  `json:"student" validate:"required"`
}

// CheckoutBuyer carries the buyer details the provider form requires.
type CheckoutBuyer struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
}

// CheckoutResponse is the signed form payload the frontend posts to the
// provider.
type CheckoutResponse struct {
	MerchantID string `json:"merchant_id"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	NotifyURL  string `json:"notify_url"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Hash       string `json:"hash"`
}

// PaymentResponse is the client-facing view of a payment record.
type PaymentResponse struct {
	ID            uint      `json:"payment_id"`
	SessionID     uint      `json:"session_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"payment_status"`
	Method        string    `json:"payment_method"`
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPaymentResponse converts a Payment model into a DTO.
func NewPaymentResponse(model models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            model.ID,
		SessionID:     model.SessionID,
		Amount:        model.Amount,
		Currency:      model.Currency,
		Status:        model.Status,
		Method:        model.Method,
		Provider:      model.Provider,
		TransactionID: model.TransactionID,
		CreatedAt:     model.CreatedAt,
	}
}
