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

// AccountHandler manages registration and login endpoints.
type AccountHandler struct {
	accounts service.AccountService
	logger   zerolog.Logger
}

// NewAccountHandler builds an account handler instance.
func NewAccountHandler(accounts service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With().Str("component", "account_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Post("/register/student", h.registerStudent)
	router.Post("/register/tutor", h.registerTutor)
	router.Post("/login", h.login)
}

func (h *AccountHandler) registerStudent(c *fiber.Ctx) error {
	var payload dto.StudentRegistration
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.accounts.RegisterStudent(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student registered", account)
}

func (h *AccountHandler) registerTutor(c *fiber.Ctx) error {
	var payload dto.TutorRegistration
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.accounts.RegisterTutor(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tutor registered", account)
}

func (h *AccountHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	login, err := h.accounts.Login(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", login)
}

func (h *AccountHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
