package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// TutorRepository defines persistence operations for tutor profiles.
type TutorRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.Tutor, error)
	Create(ctx context.Context, tutor *models.Tutor) error
	// SetVerification repoints the tutor at a new verification record,
	// superseding any previous one.
	SetVerification(ctx context.Context, tutorID, verificationID uint) error
}

type tutorRepository struct {
	db *gorm.DB
}

// NewTutorRepository instantiates the repository.
func NewTutorRepository(db *gorm.DB) TutorRepository {
	return &tutorRepository{db: db}
}

func (r *tutorRepository) GetByUserID(ctx context.Context, userID uint) (models.Tutor, error) {
	var tutor models.Tutor
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Verification").
		First(&tutor, "user_id = ?", userID).Error
	if err != nil {
		return models.Tutor{}, err
	}

	return tutor, nil
}

func (r *tutorRepository) Create(ctx context.Context, tutor *models.Tutor) error {
	return r.db.WithContext(ctx).Create(tutor).Error
}

func (r *tutorRepository) SetVerification(ctx context.Context, tutorID, verificationID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Tutor{}).
		Where("user_id = ?", tutorID).
		Update("verification_id", verificationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
