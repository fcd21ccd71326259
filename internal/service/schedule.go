package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

// SlotDurationMinutes is the fixed slot length assumed by every conflict
// check, regardless of the duration stored on individual sessions.
const SlotDurationMinutes = 120

// ErrInvalidTime indicates a date or start time that could not be parsed.
var ErrInvalidTime = errors.New("invalid date or time")

// Student-side checks guard against anything still occupying the student's
// calendar; the tutor side historically only considers Accepted sessions.
// The asymmetry is preserved on purpose.
var (
	studentConflictStatuses = []string{models.SessionRequested, models.SessionAccepted, models.SessionSubmitted}
	tutorConflictStatuses   = []string{models.SessionAccepted}
)

// ScheduleService answers double-booking queries for students and tutors.
type ScheduleService interface {
	CheckStudentConflict(ctx context.Context, studentID uint, date, startTime string) (dto.ConflictResponse, error)
	CheckTutorConflict(ctx context.Context, tutorID uint, date, startTime string) (dto.ConflictResponse, error)
}

type scheduleService struct {
	sessions repository.SessionRepository
	logger   zerolog.Logger
}

// NewScheduleService constructs the conflict checker.
func NewScheduleService(sessions repository.SessionRepository, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		sessions: sessions,
		logger:   logger.With().Str("component", "schedule_service").Logger(),
	}
}

func (s *scheduleService) CheckStudentConflict(ctx context.Context, studentID uint, date, startTime string) (dto.ConflictResponse, error) {
	day, newStart, newEnd, err := parseSlot(date, startTime)
	if err != nil {
		return dto.ConflictResponse{}, err
	}

	existing, err := s.sessions.ListForStudentOnDate(ctx, studentID, day, studentConflictStatuses)
	if err != nil {
		return dto.ConflictResponse{}, err
	}

	return firstOverlap(existing, newStart, newEnd, "You already have a session at this time on the same date.")
}

func (s *scheduleService) CheckTutorConflict(ctx context.Context, tutorID uint, date, startTime string) (dto.ConflictResponse, error) {
	day, newStart, newEnd, err := parseSlot(date, startTime)
	if err != nil {
		return dto.ConflictResponse{}, err
	}

	existing, err := s.sessions.ListForTutorOnDate(ctx, tutorID, day, tutorConflictStatuses)
	if err != nil {
		return dto.ConflictResponse{}, err
	}

	return firstOverlap(existing, newStart, newEnd, "You already have an accepted session at this time.")
}

// firstOverlap tests the proposed [start, end) minute interval against every
// existing session using half-open semantics, so back-to-back slots do not
// collide.
func firstOverlap(existing []models.Session, newStart, newEnd int, message string) (dto.ConflictResponse, error) {
	for _, session := range existing {
		existingStart, err := session.StartMinutes()
		if err != nil {
			return dto.ConflictResponse{}, fmt.Errorf("%w: session %d: %v", ErrInvalidTime, session.ID, err)
		}
		existingEnd := existingStart + SlotDurationMinutes

		if newStart < existingEnd && newEnd > existingStart {
			conflicting := dto.NewSessionResponse(session)
			return dto.ConflictResponse{
				Conflict:           true,
				Message:            message,
				ConflictingSession: &conflicting,
			}, nil
		}
	}

	return dto.ConflictResponse{Conflict: false}, nil
}

func parseSlot(date, startTime string) (datatypes.Date, int, int, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return datatypes.Date{}, 0, 0, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	start, err := models.ParseClock(startTime)
	if err != nil {
		return datatypes.Date{}, 0, 0, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	return datatypes.Date(day), start, start + SlotDurationMinutes, nil
}
