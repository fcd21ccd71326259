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

// AdminHandler manages tutor verification endpoints.
type AdminHandler struct {
	verifications service.VerificationService
	logger        zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(verifications service.VerificationService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		verifications: verifications,
		logger:        logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Put("/tutors/:tutorId/verification", h.decide)
	router.Get("/tutors/:tutorId/verification", h.status)
}

func (h *AdminHandler) decide(c *fiber.Ctx) error {
	tutorID, err := parseUintParam(c, "tutorId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.VerificationDecision
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	verification, err := h.verifications.Decide(c.UserContext(), tutorID, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification recorded", verification)
}

func (h *AdminHandler) status(c *fiber.Ctx) error {
	tutorID, err := parseUintParam(c, "tutorId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.verifications.Status(c.UserContext(), tutorID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tutor status retrieved", status)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTutorNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "tutor not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
