package dto

import (
	"time"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// NoteUploadRequest accompanies the multipart PDF upload for a session.
type NoteUploadRequest struct {
	SessionID uint   `form:"session_id" validate:"required,gt=0"`
	Title     string `form:"title" validate:"required,min=1,max=255"`
}

// NoteResponse lists a note without its document body.
type NoteResponse struct {
	ID        uint      `json:"note_id"`
	SessionID uint      `json:"session_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNoteResponse converts a Note model into a DTO.
func NewNoteResponse(model models.Note) NoteResponse {
	return NoteResponse{
		ID:        model.ID,
		SessionID: model.SessionID,
		Title:     model.Title,
		CreatedAt: model.CreatedAt,
	}
}

// NewNoteResponseSlice converts a slice of notes.
func NewNoteResponseSlice(notes []models.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}
	return responses
}
