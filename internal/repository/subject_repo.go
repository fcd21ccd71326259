package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// SubjectRepository defines persistence operations for the subject catalogue
// and tutor offerings.
type SubjectRepository interface {
	GetOrCreateByName(ctx context.Context, name string) (models.Subject, error)
	GetTutorSubject(ctx context.Context, id uint) (models.TutorSubject, error)
	// CreateTutorSubjects inserts all offerings in one batched statement.
	CreateTutorSubjects(ctx context.Context, offerings []models.TutorSubject) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository instantiates the repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) GetOrCreateByName(ctx context.Context, name string) (models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&subject).Error
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Subject{}, err
	}

	subject = models.Subject{Name: name}
	if err := r.db.WithContext(ctx).Create(&subject).Error; err != nil {
		return models.Subject{}, err
	}

	return subject, nil
}

func (r *subjectRepository) GetTutorSubject(ctx context.Context, id uint) (models.TutorSubject, error) {
	var offering models.TutorSubject
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Tutor").
		Preload("Tutor.User").
		First(&offering, id).Error
	if err != nil {
		return models.TutorSubject{}, err
	}

	return offering, nil
}

func (r *subjectRepository) CreateTutorSubjects(ctx context.Context, offerings []models.TutorSubject) error {
	if len(offerings) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&offerings).Error
}
