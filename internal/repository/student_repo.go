package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// StudentRepository defines persistence operations for student profiles.
type StudentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Guardian").
		First(&student, "user_id = ?", userID).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}
