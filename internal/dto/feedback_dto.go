package dto

import (
	"time"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// FeedbackCreateRequest submits a rating and comment for a session.
type FeedbackCreateRequest struct {
	SessionID uint   `json:"session_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comments  string `json:"comments" validate:"required"`
	GivenBy   string `json:"given_by" validate:"required,oneof=student tutor"`
}

// FeedbackUpdateRequest edits feedback within the allowed window.
type FeedbackUpdateRequest struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comments string `json:"comments" validate:"required"`
	GivenBy  string `json:"given_by" validate:"required,oneof=student tutor"`
}

// FeedbackResponse is the client-facing view of one feedback entry.
type FeedbackResponse struct {
	ID        uint      `json:"feedback_id"`
	SessionID uint      `json:"session_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments"`
	GivenBy   string    `json:"given_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFeedbackResponse groups a session's feedback by author role.
type SessionFeedbackResponse struct {
	StudentFeedback *FeedbackResponse `json:"student_feedback"`
	TutorFeedback   *FeedbackResponse `json:"tutor_feedback"`
}

// NewFeedbackResponse converts a Feedback model into a DTO.
func NewFeedbackResponse(model models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        model.ID,
		SessionID: model.SessionID,
		Rating:    model.Rating,
		Comments:  model.Comments,
		GivenBy:   model.GivenBy,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
