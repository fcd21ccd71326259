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

// SessionHandler manages session booking endpoints.
type SessionHandler struct {
	sessions service.SessionService
	schedule service.ScheduleService
	logger   zerolog.Logger
}

// NewSessionHandler builds a session handler instance.
func NewSessionHandler(sessions service.SessionService, schedule service.ScheduleService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		schedule: schedule,
		logger:   logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("/request", h.request)
	router.Get("/student/:studentId/check-conflict", h.checkStudentConflict)
	router.Get("/tutor/:tutorId/check-conflict", h.checkTutorConflict)
	router.Get("/student/:studentId/sessions", h.listForStudent)
	router.Get("/tutor/:tutorId/sessions", h.listForTutor)
	router.Put("/:sessionId/status", h.changeStatus)
	router.Get("/:sessionId", h.get)
}

func (h *SessionHandler) request(c *fiber.Ctx) error {
	var payload dto.SessionRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.Request(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session requested", session)
}

func (h *SessionHandler) checkStudentConflict(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.schedule.CheckStudentConflict(c.UserContext(), studentID, c.Query("date"), c.Query("start_time"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "conflict check completed", result)
}

func (h *SessionHandler) checkTutorConflict(c *fiber.Ctx) error {
	tutorID, err := parseUintParam(c, "tutorId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.schedule.CheckTutorConflict(c.UserContext(), tutorID, c.Query("date"), c.Query("start_time"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "conflict check completed", result)
}

func (h *SessionHandler) listForStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sessions, err := h.sessions.ListForStudent(c.UserContext(), studentID, c.Query("status"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "sessions retrieved", sessions)
}

func (h *SessionHandler) listForTutor(c *fiber.Ctx) error {
	tutorID, err := parseUintParam(c, "tutorId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sessions, err := h.sessions.ListForTutor(c.UserContext(), tutorID, c.Query("status"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "sessions retrieved", sessions)
}

func (h *SessionHandler) changeStatus(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SessionStatusUpdate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.ChangeStatus(c.UserContext(), sessionID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session status updated", session)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.Get(c.UserContext(), sessionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *SessionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrBookingConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTime):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
