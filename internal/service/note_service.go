package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

// noteMaxBytes caps uploaded documents at 5 MB.
const noteMaxBytes = 5 * 1024 * 1024

var (
	// ErrNoteNotFound indicates the referenced note does not exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrNoteNotPDF indicates an upload that is not a PDF document.
	ErrNoteNotPDF = errors.New("only PDF files are allowed")
	// ErrNoteTooLarge indicates an upload above the size limit.
	ErrNoteTooLarge = errors.New("note document exceeds the size limit")
)

// NoteService stores and serves PDF session notes.
type NoteService interface {
	Upload(ctx context.Context, payload dto.NoteUploadRequest, document []byte) (dto.NoteResponse, error)
	ListForSession(ctx context.Context, sessionID uint) ([]dto.NoteResponse, error)
	Download(ctx context.Context, sessionID, noteID uint) (models.Note, error)
}

type noteService struct {
	notes     repository.NoteRepository
	sessions  repository.SessionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewNoteService constructs the note service.
func NewNoteService(notes repository.NoteRepository, sessions repository.SessionRepository, validate *validator.Validate, logger zerolog.Logger) NoteService {
	return &noteService{
		notes:     notes,
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "note_service").Logger(),
	}
}

func (s *noteService) Upload(ctx context.Context, payload dto.NoteUploadRequest, document []byte) (dto.NoteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoteResponse{}, err
	}

	if len(document) == 0 {
		return dto.NoteResponse{}, fmt.Errorf("note document is required")
	}
	if len(document) > noteMaxBytes {
		return dto.NoteResponse{}, ErrNoteTooLarge
	}

	if detected := mimetype.Detect(document); !detected.Is("application/pdf") {
		return dto.NoteResponse{}, fmt.Errorf("%w: got %s", ErrNoteNotPDF, detected.String())
	}

	if _, err := s.sessions.GetByID(ctx, payload.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoteResponse{}, ErrSessionNotFound
		}
		return dto.NoteResponse{}, err
	}

	note := models.Note{
		SessionID: payload.SessionID,
		Title:     payload.Title,
		Document:  document,
	}

	if err := s.notes.Create(ctx, &note); err != nil {
		return dto.NoteResponse{}, err
	}

	s.logger.Info().Uint("note_id", note.ID).Uint("session_id", note.SessionID).Msg("note uploaded")

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) ListForSession(ctx context.Context, sessionID uint) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return dto.NewNoteResponseSlice(notes), nil
}

func (s *noteService) Download(ctx context.Context, sessionID, noteID uint) (models.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	if note.SessionID != sessionID {
		return models.Note{}, ErrNoteNotFound
	}

	return note, nil
}
