package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Address{},
		&models.User{},
		&models.Guardian{},
		&models.Student{},
		&models.Tutor{},
		&models.Verification{},
		&models.Subject{},
		&models.TutorSubject{},
		&models.Session{},
		&models.Payment{},
		&models.CreditEntry{},
		&models.Feedback{},
		&models.Note{},
	))
	return db
}

func seedBooking(t *testing.T, db *gorm.DB) (models.Student, models.TutorSubject) {
	t.Helper()

	studentUser := models.User{FullName: "Kasun Silva", Email: "student@example.com", Password: "x", Role: models.RoleStudent}
	tutorUser := models.User{FullName: "Nimal Perera", Email: "tutor@example.com", Password: "x", Role: models.RoleTutor}
	require.NoError(t, db.Create(&studentUser).Error)
	require.NoError(t, db.Create(&tutorUser).Error)

	student := models.Student{UserID: studentUser.ID, Grade: "10"}
	tutor := models.Tutor{UserID: tutorUser.ID, School: "Royal College"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&tutor).Error)

	subject := models.Subject{Name: "Mathematics"}
	require.NoError(t, db.Create(&subject).Error)

	offering := models.TutorSubject{TutorID: tutor.UserID, SubjectID: subject.ID, Grade: "10", TeachingMedium: "English"}
	require.NoError(t, db.Create(&offering).Error)

	return student, offering
}

func createSession(t *testing.T, db *gorm.DB, student models.Student, offering models.TutorSubject, startTime, status string) models.Session {
	t.Helper()

	session := models.Session{
		TutorSubjectID: offering.ID,
		StudentID:      student.UserID,
		Date:           datatypes.Date(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
		StartTime:      startTime,
		DurationHours:  2,
		Status:         status,
	}
	require.NoError(t, NewSessionRepository(db).Create(context.Background(), &session))
	return session
}

func TestSessionRepositoryGetWithParties(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	created := createSession(t, db, student, offering, "10:00", models.SessionRequested)

	repo := NewSessionRepository(db)
	session, err := repo.GetWithParties(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "student@example.com", session.Student.User.Email)
	require.Equal(t, "tutor@example.com", session.TutorSubject.Tutor.User.Email)
	require.Equal(t, "Mathematics", session.TutorSubject.Subject.Name)
}

func TestSessionRepositoryListForStudentOnDate(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	createSession(t, db, student, offering, "10:00", models.SessionRequested)
	createSession(t, db, student, offering, "14:00", models.SessionAccepted)
	createSession(t, db, student, offering, "16:00", models.SessionCancelled)

	repo := NewSessionRepository(db)
	date := datatypes.Date(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))

	sessions, err := repo.ListForStudentOnDate(context.Background(), student.UserID, date, []string{models.SessionRequested, models.SessionAccepted})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	otherDate := datatypes.Date(time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC))
	sessions, err = repo.ListForStudentOnDate(context.Background(), student.UserID, otherDate, []string{models.SessionRequested})
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestSessionRepositoryListForTutorOnDate(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	createSession(t, db, student, offering, "10:00", models.SessionAccepted)
	createSession(t, db, student, offering, "14:00", models.SessionRequested)

	repo := NewSessionRepository(db)
	date := datatypes.Date(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))

	sessions, err := repo.ListForTutorOnDate(context.Background(), offering.TutorID, date, []string{models.SessionAccepted})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "10:00", sessions[0].StartTime)
}

func TestSessionRepositoryListForStudentFiltersStatus(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	createSession(t, db, student, offering, "10:00", models.SessionRequested)
	createSession(t, db, student, offering, "14:00", models.SessionPaid)

	repo := NewSessionRepository(db)

	sessions, err := repo.ListForStudent(context.Background(), student.UserID, models.SessionPaid)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, models.SessionPaid, sessions[0].Status)

	sessions, err = repo.ListForStudent(context.Background(), student.UserID, "")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}

func TestSessionRepositoryUpdateStatusGuarded(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	session := createSession(t, db, student, offering, "10:00", models.SessionPaid)

	repo := NewSessionRepository(db)

	moved, err := repo.UpdateStatusGuarded(context.Background(), session.ID, models.SessionPaid, models.SessionCompleted)
	require.NoError(t, err)
	require.True(t, moved)

	// Second attempt sees the row already moved.
	moved, err = repo.UpdateStatusGuarded(context.Background(), session.ID, models.SessionPaid, models.SessionCompleted)
	require.NoError(t, err)
	require.False(t, moved)

	stored, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionCompleted, stored.Status)
}
