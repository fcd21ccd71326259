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

// FeedbackHandler manages session feedback endpoints.
type FeedbackHandler struct {
	feedback service.FeedbackService
	logger   zerolog.Logger
}

// NewFeedbackHandler builds a feedback handler instance.
func NewFeedbackHandler(feedback service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		logger:   logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *FeedbackHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Put("/:feedbackId", h.update)
	router.Get("/session/:sessionId", h.getForSession)
}

func (h *FeedbackHandler) submit(c *fiber.Ctx) error {
	var payload dto.FeedbackCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.Submit(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback submitted", feedback)
}

func (h *FeedbackHandler) update(c *fiber.Ctx) error {
	feedbackID, err := parseUintParam(c, "feedbackId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FeedbackUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.Update(c.UserContext(), feedbackID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback updated", feedback)
}

func (h *FeedbackHandler) getForSession(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	feedback, err := h.feedback.GetForSession(c.UserContext(), sessionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback retrieved", feedback)
}

func (h *FeedbackHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrFeedbackNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "feedback not found")
	case errors.Is(err, service.ErrFeedbackExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFeedbackWindowExpired):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrFeedbackForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
