package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository so multi-entity transitions can run
// against a single database handle, transactional or not.
type Repositories struct {
	Sessions      SessionRepository
	Payments      PaymentRepository
	Credits       CreditRepository
	Users         UserRepository
	Students      StudentRepository
	Tutors        TutorRepository
	Verifications VerificationRepository
	Subjects      SubjectRepository
	Feedback      FeedbackRepository
	Notes         NoteRepository
}

// New builds the repository bundle over a database handle.
func New(db *gorm.DB) Repositories {
	return Repositories{
		Sessions:      NewSessionRepository(db),
		Payments:      NewPaymentRepository(db),
		Credits:       NewCreditRepository(db),
		Users:         NewUserRepository(db),
		Students:      NewStudentRepository(db),
		Tutors:        NewTutorRepository(db),
		Verifications: NewVerificationRepository(db),
		Subjects:      NewSubjectRepository(db),
		Feedback:      NewFeedbackRepository(db),
		Notes:         NewNoteRepository(db),
	}
}

// UnitOfWork runs a closure against transaction-bound repositories. The
// transaction commits when the closure returns nil and rolls back on any
// error, so multi-statement transitions are all-or-nothing.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork builds a GORM-backed transaction runner.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(r Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
