package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// NoteRepository defines persistence operations for session notes.
type NoteRepository interface {
	GetByID(ctx context.Context, id uint) (models.Note, error)
	// ListBySession returns note metadata without document bodies.
	ListBySession(ctx context.Context, sessionID uint) ([]models.Note, error)
	Create(ctx context.Context, note *models.Note) error
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository instantiates the repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (r *noteRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Select("id", "session_id", "title", "created_at").
		Where("session_id = ?", sessionID).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}
