package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/service"
	"github.com/sheda3838/tuteskillz-backend/internal/utils"
)

// PaymentHandler manages the PayHere checkout and notification endpoints.
type PaymentHandler struct {
	payments service.PaymentService
	logger   zerolog.Logger
}

// NewPaymentHandler builds a payment handler instance.
func NewPaymentHandler(payments service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Post("/payhere/create", h.createCheckout)
	router.Post("/payhere/webhook", h.webhook)
}

func (h *PaymentHandler) createCheckout(c *fiber.Ctx) error {
	var payload dto.CheckoutRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	checkout, err := h.payments.CreateCheckout(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "checkout created", checkout)
}

// webhook always acknowledges provider retries for terminal failures with a
// 200 so PayHere stops redelivering; only transient errors earn a 5xx.
func (h *PaymentHandler) webhook(c *fiber.Ctx) error {
	var payload dto.PaymentWebhook
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification payload")
	}

	session, err := h.payments.ProcessWebhook(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "payment processed", session)
}

func (h *PaymentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidMerchant):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCheckoutUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
