package dto

import (
	"time"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// SessionRequestCreate is the payload a student submits to request a session.
type SessionRequestCreate struct {
	TutorSubjectID uint   `json:"tutor_subject_id" validate:"required,gt=0"`
	StudentID      uint   `json:"student_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required"`
	DurationHours  int    `json:"duration" validate:"required,gt=0"`
	StudentNote    string `json:"student_note"`
}

// SessionStatusUpdate changes a session's status by tutor or student action.
type SessionStatusUpdate struct {
	Status    string `json:"status" validate:"required,oneof=Accepted Declined Cancelled"`
	Reason    string `json:"reason"`
	TutorNote string `json:"tutor_note"`
}

// SessionFilter narrows party session listings.
type SessionFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=Requested Accepted Declined Cancelled Paid Completed Submitted"`
}

// SessionResponse is the client-facing view of a session.
type SessionResponse struct {
	ID            uint      `json:"session_id"`
	TutorSubjectID uint     `json:"tutor_subject_id"`
	StudentID     uint      `json:"student_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	DurationHours int       `json:"duration"`
	Status        string    `json:"session_status"`
	MeetingURL    string    `json:"meeting_url,omitempty"`
	RecordingURL  string    `json:"recording_url,omitempty"`
	StudentNote   string    `json:"student_note,omitempty"`
	TutorNote     string    `json:"tutor_note,omitempty"`
	SubjectName   string    `json:"subject_name,omitempty"`
	Grade         string    `json:"grade,omitempty"`
	TeachingMedium string   `json:"teaching_medium,omitempty"`
	TutorID       uint      `json:"tutor_id,omitempty"`
	TutorName     string    `json:"tutor_name,omitempty"`
	StudentName   string    `json:"student_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ConflictResponse reports the outcome of a double-booking check.
type ConflictResponse struct {
	Conflict           bool             `json:"conflict"`
	Message            string           `json:"message,omitempty"`
	ConflictingSession *SessionResponse `json:"conflicting_session,omitempty"`
}

// NewSessionResponse converts a Session model into a DTO.
func NewSessionResponse(model models.Session) SessionResponse {
	response := SessionResponse{
		ID:             model.ID,
		TutorSubjectID: model.TutorSubjectID,
		StudentID:      model.StudentID,
		Date:           time.Time(model.Date).Format("2006-01-02"),
		StartTime:      model.StartTime,
		DurationHours:  model.DurationHours,
		Status:         model.Status,
		MeetingURL:     model.MeetingURL,
		RecordingURL:   model.RecordingURL,
		StudentNote:    model.StudentNote,
		TutorNote:      model.TutorNote,
		CreatedAt:      model.CreatedAt,
	}

	if model.TutorSubject.ID != 0 {
		response.SubjectName = model.TutorSubject.Subject.Name
		response.Grade = model.TutorSubject.Grade
		response.TeachingMedium = model.TutorSubject.TeachingMedium
		response.TutorID = model.TutorSubject.TutorID
		response.TutorName = model.TutorSubject.Tutor.User.FullName
	}

	if model.Student.UserID != 0 {
		response.StudentName = model.Student.User.FullName
	}

	return response
}

// NewSessionResponseSlice converts a slice of sessions.
func NewSessionResponseSlice(sessions []models.Session) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session))
	}
	return responses
}
