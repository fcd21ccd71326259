package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/service"
	"github.com/sheda3838/tuteskillz-backend/internal/utils"
)

// NoteHandler manages session note uploads and downloads.
type NoteHandler struct {
	notes  service.NoteService
	logger zerolog.Logger
}

// NewNoteHandler builds a note handler instance.
func NewNoteHandler(notes service.NoteService, logger zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:  notes,
		logger: logger.With().Str("component", "note_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *NoteHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Get("/session/:sessionId", h.listForSession)
	router.Get("/session/:sessionId/:noteId/download", h.download)
}

func (h *NoteHandler) upload(c *fiber.Ctx) error {
	var payload dto.NoteUploadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read document")
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read document")
	}

	note, err := h.notes.Upload(c.UserContext(), payload, document)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note uploaded", note)
}

func (h *NoteHandler) listForSession(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notes, err := h.notes.ListForSession(c.UserContext(), sessionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notes retrieved", notes)
}

func (h *NoteHandler) download(c *fiber.Ctx) error {
	sessionID, err := parseUintParam(c, "sessionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	noteID, err := parseUintParam(c, "noteId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := h.notes.Download(c.UserContext(), sessionID, noteID)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", note.Title+".pdf"))
	return c.Send(note.Document)
}

func (h *NoteHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrNoteNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "note not found")
	case errors.Is(err, service.ErrNoteNotPDF):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrNoteTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
