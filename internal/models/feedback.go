package models

import "time"

const (
	// FeedbackByStudent attributes feedback to the session's student.
	FeedbackByStudent = "student"
	// FeedbackByTutor attributes feedback to the session's tutor.
	FeedbackByTutor = "tutor"
)

// Feedback is a rating and comment left on a session by one of its parties.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"feedback_id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comments  string    `gorm:"type:text;not null" json:"comments"`
	GivenBy   string    `gorm:"size:16;not null" json:"given_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Editable reports whether the feedback may still be changed at the given
// moment. Edits close a fixed window after creation.
func (f Feedback) Editable(reference time.Time, window time.Duration) bool {
	return reference.Sub(f.CreatedAt) <= window
}
