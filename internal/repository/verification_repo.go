package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// VerificationRepository defines persistence operations for verification records.
type VerificationRepository interface {
	GetByID(ctx context.Context, id uint) (models.Verification, error)
	Create(ctx context.Context, verification *models.Verification) error
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository instantiates the repository.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) GetByID(ctx context.Context, id uint) (models.Verification, error) {
	var verification models.Verification
	if err := r.db.WithContext(ctx).First(&verification, id).Error; err != nil {
		return models.Verification{}, err
	}

	return verification, nil
}

func (r *verificationRepository) Create(ctx context.Context, verification *models.Verification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}
