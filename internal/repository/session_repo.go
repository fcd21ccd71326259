package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Session, error)
	// GetWithParties loads a session with tutor and student accounts
	// preloaded so callers can reach both parties' contact details.
	GetWithParties(ctx context.Context, id uint) (models.Session, error)
	ListForStudent(ctx context.Context, studentID uint, status string) ([]models.Session, error)
	ListForTutor(ctx context.Context, tutorID uint, status string) ([]models.Session, error)
	ListForStudentOnDate(ctx context.Context, studentID uint, date datatypes.Date, statuses []string) ([]models.Session, error)
	ListForTutorOnDate(ctx context.Context, tutorID uint, date datatypes.Date, statuses []string) ([]models.Session, error)
	ListByStatus(ctx context.Context, status string) ([]models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	// UpdateStatusGuarded moves a session from one status to another only
	// when the row still carries the expected current status. Returns false
	// when another writer got there first.
	UpdateStatusGuarded(ctx context.Context, id uint, from, to string) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates a GORM-backed repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Preload("TutorSubject").
		Preload("TutorSubject.Subject").
		Preload("TutorSubject.Tutor").
		Preload("TutorSubject.Tutor.User").
		Preload("Student").
		Preload("Student.User")
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return models.Session{}, err
	}

	return session, nil
}

func (r *sessionRepository) GetWithParties(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	if err := r.baseQuery(ctx).First(&session, id).Error; err != nil {
		return models.Session{}, err
	}

	return session, nil
}

func (r *sessionRepository) ListForStudent(ctx context.Context, studentID uint, status string) ([]models.Session, error) {
	query := r.baseQuery(ctx).Where("student_id = ?", studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("date ASC, start_time ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) ListForTutor(ctx context.Context, tutorID uint, status string) ([]models.Session, error) {
	query := r.baseQuery(ctx).
		Joins("JOIN tutor_subjects ON tutor_subjects.id = sessions.tutor_subject_id").
		Where("tutor_subjects.tutor_id = ?", tutorID)
	if status != "" {
		query = query.Where("sessions.status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("sessions.date ASC, sessions.start_time ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) ListForStudentOnDate(ctx context.Context, studentID uint, date datatypes.Date, statuses []string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("date = ?", date).
		Where("status IN ?", statuses).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) ListForTutorOnDate(ctx context.Context, tutorID uint, date datatypes.Date, statuses []string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Joins("JOIN tutor_subjects ON tutor_subjects.id = sessions.tutor_subject_id").
		Where("tutor_subjects.tutor_id = ?", tutorID).
		Where("sessions.date = ?", date).
		Where("sessions.status IN ?", statuses).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) ListByStatus(ctx context.Context, status string) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) UpdateStatusGuarded(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
