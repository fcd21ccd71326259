package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

var (
	// ErrFeedbackNotFound indicates the referenced feedback does not exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrFeedbackExists indicates this role already left feedback for the session.
	ErrFeedbackExists = errors.New("feedback already submitted for this session")
	// ErrFeedbackWindowExpired indicates the edit window has closed.
	ErrFeedbackWindowExpired = errors.New("feedback edit window has expired")
	// ErrFeedbackForbidden indicates an edit attempted by a different role
	// than the author.
	ErrFeedbackForbidden = errors.New("feedback can only be edited by its author")
)

// FeedbackService manages session ratings and comments.
type FeedbackService interface {
	Submit(ctx context.Context, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error)
	Update(ctx context.Context, id uint, payload dto.FeedbackUpdateRequest) (dto.FeedbackResponse, error)
	GetForSession(ctx context.Context, sessionID uint) (dto.SessionFeedbackResponse, error)
}

type feedbackService struct {
	feedback   repository.FeedbackRepository
	sessions   repository.SessionRepository
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	editWindow time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewFeedbackService constructs the feedback service. Comments are run
// through a strict sanitiser before storage.
func NewFeedbackService(feedback repository.FeedbackRepository, sessions repository.SessionRepository, validate *validator.Validate, editWindow time.Duration, logger zerolog.Logger) FeedbackService {
	if editWindow <= 0 {
		editWindow = 30 * time.Minute
	}

	return &feedbackService{
		feedback:   feedback,
		sessions:   sessions,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		editWindow: editWindow,
		logger:     logger.With().Str("component", "feedback_service").Logger(),
		now:        time.Now,
	}
}

func (s *feedbackService) Submit(ctx context.Context, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if _, err := s.sessions.GetByID(ctx, payload.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrSessionNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	if _, err := s.feedback.GetBySessionAndRole(ctx, payload.SessionID, payload.GivenBy); err == nil {
		return dto.FeedbackResponse{}, ErrFeedbackExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.FeedbackResponse{}, err
	}

	feedback := models.Feedback{
		SessionID: payload.SessionID,
		Rating:    payload.Rating,
		Comments:  s.sanitizer.Sanitize(payload.Comments),
		GivenBy:   payload.GivenBy,
	}

	if err := s.feedback.Create(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Uint("feedback_id", feedback.ID).Uint("session_id", feedback.SessionID).Msg("feedback submitted")

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) Update(ctx context.Context, id uint, payload dto.FeedbackUpdateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	feedback, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrFeedbackNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	if feedback.GivenBy != payload.GivenBy {
		return dto.FeedbackResponse{}, ErrFeedbackForbidden
	}

	if !feedback.Editable(s.now(), s.editWindow) {
		return dto.FeedbackResponse{}, ErrFeedbackWindowExpired
	}

	feedback.Rating = payload.Rating
	feedback.Comments = s.sanitizer.Sanitize(payload.Comments)

	if err := s.feedback.Update(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Uint("feedback_id", feedback.ID).Msg("feedback updated")

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) GetForSession(ctx context.Context, sessionID uint) (dto.SessionFeedbackResponse, error) {
	entries, err := s.feedback.ListBySession(ctx, sessionID)
	if err != nil {
		return dto.SessionFeedbackResponse{}, err
	}

	var response dto.SessionFeedbackResponse
	for _, entry := range entries {
		converted := dto.NewFeedbackResponse(entry)
		switch entry.GivenBy {
		case models.FeedbackByStudent:
			response.StudentFeedback = &converted
		case models.FeedbackByTutor:
			response.TutorFeedback = &converted
		}
	}

	return response, nil
}
