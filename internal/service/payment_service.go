package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

var (
	// ErrInvalidMerchant indicates a webhook carrying the wrong merchant id.
	ErrInvalidMerchant = errors.New("invalid merchant id")
	// ErrCheckoutUnavailable indicates provider credentials are missing.
	ErrCheckoutUnavailable = errors.New("payment provider is not configured")
)

// PayHere reports settlement success with this status code.
const payHereStatusSuccess = "2"

// PaymentConfig carries the provider credentials and checkout defaults.
type PaymentConfig struct {
	MerchantID  string
	Secret      string
	NotifyURL   string
	ReturnBase  string
	Amount      string
	Currency    string
}

// PaymentService builds signed checkout payloads and consumes provider
// webhooks.
type PaymentService interface {
	CreateCheckout(ctx context.Context, payload dto.CheckoutRequest) (dto.CheckoutResponse, error)
	ProcessWebhook(ctx context.Context, payload dto.PaymentWebhook) (dto.SessionResponse, error)
}

type paymentService struct {
	cfg       PaymentConfig
	sessions  SessionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaymentService constructs the payment gateway adapter.
func NewPaymentService(cfg PaymentConfig, sessions SessionService, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		cfg:       cfg,
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, payload dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CheckoutResponse{}, err
	}

	if s.cfg.MerchantID == "" || s.cfg.Secret == "" {
		return dto.CheckoutResponse{}, ErrCheckoutUnavailable
	}

	orderID := strconv.FormatUint(uint64(payload.SessionID), 10)
	hash := checkoutHash(s.cfg.MerchantID, orderID, s.cfg.Amount, s.cfg.Currency, s.cfg.Secret)

	firstName := payload.Student.FullName
	lastName := ""
	if parts := strings.SplitN(payload.Student.FullName, " ", 2); len(parts) == 2 {
		firstName = parts[0]
		lastName = parts[1]
	}

	sessionURL := fmt.Sprintf("%s/session/%d", s.cfg.ReturnBase, payload.SessionID)

	return dto.CheckoutResponse{
		MerchantID: s.cfg.MerchantID,
		ReturnURL:  sessionURL,
		CancelURL:  sessionURL,
		NotifyURL:  s.cfg.NotifyURL,
		OrderID:    orderID,
		Items:      "TuteSkillz Session Fee",
		Amount:     s.cfg.Amount,
		Currency:   s.cfg.Currency,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      payload.Student.Email,
		Phone:      payload.Student.Phone,
		Address:    payload.Student.Street,
		City:       payload.Student.City,
		Country:    "Sri Lanka",
		Hash:       hash,
	}, nil
}

func (s *paymentService) ProcessWebhook(ctx context.Context, payload dto.PaymentWebhook) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	if payload.MerchantID != s.cfg.MerchantID {
		s.logger.Warn().Str("merchant_id", payload.MerchantID).Msg("webhook with wrong merchant id")
		return dto.SessionResponse{}, ErrInvalidMerchant
	}

	sessionID, err := strconv.ParseUint(payload.OrderID, 10, 64)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("invalid order id %q: %w", payload.OrderID, err)
	}

	amount, err := strconv.ParseFloat(payload.Amount, 64)
	if err != nil {
		amount = 0
	}

	status := models.PaymentStatusFailed
	if payload.StatusCode == payHereStatusSuccess {
		status = models.PaymentStatusPaid
	}

	s.logger.Info().
		Str("transaction_id", payload.TransactionID).
		Str("order_id", payload.OrderID).
		Str("status", status).
		Msg("processing payment webhook")

	return s.sessions.ConfirmPayment(ctx, PaymentConfirmation{
		SessionID:     uint(sessionID),
		TransactionID: payload.TransactionID,
		Amount:        amount,
		Currency:      payload.Currency,
		Method:        payload.Method,
		Status:        status,
	})
}

// checkoutHash computes the provider's MD5-of-MD5 signature over the order
// fields: md5(merchantId + orderId + amount + currency + md5(secret)),
// uppercase hex at both levels.
func checkoutHash(merchantID, orderID, amount, currency, secret string) string {
	hashedSecret := strings.ToUpper(fmt.Sprintf("%x", md5.Sum([]byte(secret))))
	raw := merchantID + orderID + amount + currency + hashedSecret
	return strings.ToUpper(fmt.Sprintf("%x", md5.Sum([]byte(raw))))
}
