package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

// DashboardService produces the student booking summary, cached in Redis.
type DashboardService interface {
	GetStudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
	InvalidateStudent(ctx context.Context, studentID uint)
}

type dashboardService struct {
	sessions repository.SessionRepository
	credits  repository.CreditRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(sessions repository.SessionRepository, credits repository.CreditRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		sessions: sessions,
		credits:  credits,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func dashboardCacheKey(studentID uint) string {
	return fmt.Sprintf("dashboard:student:%d", studentID)
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := dashboardCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	sessions, err := s.sessions.ListForStudent(ctx, studentID, "")
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	outstanding, err := s.credits.CountOutstanding(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := s.buildResponse(studentID, sessions, outstanding)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

// InvalidateStudent drops the cached entry after a session write.
func (s *dashboardService) InvalidateStudent(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate dashboard cache")
	}
}

func (s *dashboardService) buildResponse(studentID uint, sessions []models.Session, outstanding int64) dto.StudentDashboardResponse {
	response := dto.StudentDashboardResponse{
		StudentID:        studentID,
		UpcomingSessions: []dto.SessionResponse{},
		AvailableCredits: int(outstanding),
	}

	now := s.now()
	for _, session := range sessions {
		switch session.Status {
		case models.SessionRequested:
			response.PendingRequests++
		case models.SessionAccepted:
			response.AwaitingPayment++
		case models.SessionCompleted:
			response.CompletedCount++
		}

		if session.Status == models.SessionAccepted || session.Status == models.SessionPaid {
			if end, err := session.EndTime(); err == nil && end.After(now) {
				response.UpcomingSessions = append(response.UpcomingSessions, dto.NewSessionResponse(session))
			}
		}
	}

	return response
}
