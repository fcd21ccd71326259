package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// FeedbackRepository defines persistence operations for session feedback.
type FeedbackRepository interface {
	GetByID(ctx context.Context, id uint) (models.Feedback, error)
	GetBySessionAndRole(ctx context.Context, sessionID uint, givenBy string) (models.Feedback, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Update(ctx context.Context, feedback *models.Feedback) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository instantiates the repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint) (models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, id).Error; err != nil {
		return models.Feedback{}, err
	}

	return feedback, nil
}

func (r *feedbackRepository) GetBySessionAndRole(ctx context.Context, sessionID uint, givenBy string) (models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("given_by = ?", givenBy).
		First(&feedback).Error
	if err != nil {
		return models.Feedback{}, err
	}

	return feedback, nil
}

func (r *feedbackRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Feedback, error) {
	var entries []models.Feedback
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Save(feedback).Error
}
