package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Session lifecycle statuses. "Submitted" is recognised in conflict queries
// for historical rows but is never assigned by any transition.
const (
	SessionRequested = "Requested"
	SessionAccepted  = "Accepted"
	SessionDeclined  = "Declined"
	SessionCancelled = "Cancelled"
	SessionPaid      = "Paid"
	SessionCompleted = "Completed"
	SessionSubmitted = "Submitted"
)

// Session is a single booked tutoring slot between a student and a
// tutor-subject offering.
type Session struct {
	ID            uint           `gorm:"primaryKey" json:"session_id"`
	TutorSubjectID uint          `gorm:"not null;index" json:"tutor_subject_id"`
	TutorSubject  TutorSubject   `json:"tutor_subject"`
	StudentID     uint           `gorm:"not null;index" json:"student_id"`
	Student       Student        `json:"student"`
	Date          datatypes.Date `gorm:"not null" json:"date"`
	StartTime     string         `gorm:"size:8;not null" json:"start_time"`
	DurationHours int            `gorm:"not null" json:"duration"`
	Status        string         `gorm:"size:16;not null;index" json:"session_status"`
	MeetingURL    string         `gorm:"size:512" json:"meeting_url"`
	RecordingURL  string         `gorm:"size:512" json:"recording_url"`
	StudentNote   string         `gorm:"type:text" json:"student_note"`
	TutorNote     string         `gorm:"type:text" json:"tutor_note"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

var sessionTransitions = map[string][]string{
	SessionRequested: {SessionAccepted, SessionDeclined, SessionCancelled},
	SessionAccepted:  {SessionPaid, SessionCancelled},
	SessionPaid:      {SessionCompleted, SessionCancelled},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Terminal statuses allow nothing.
func CanTransition(from, to string) bool {
	for _, allowed := range sessionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status permits no further transitions.
func IsTerminalStatus(status string) bool {
	return len(sessionTransitions[status]) == 0
}

// ParseClock converts a "HH:MM" (or "HH:MM:SS") string into minutes since
// midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", value)
	}

	return hours*60 + minutes, nil
}

// StartMinutes returns the session start as minutes since midnight.
func (s Session) StartMinutes() (int, error) {
	return ParseClock(s.StartTime)
}

// EndTime computes the wall-clock moment the session finishes, combining the
// calendar date, start time and duration in hours.
func (s Session) EndTime() (time.Time, error) {
	startMinutes, err := s.StartMinutes()
	if err != nil {
		return time.Time{}, err
	}

	day := time.Time(s.Date)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		Add(time.Duration(startMinutes) * time.Minute)

	return start.Add(time.Duration(s.DurationHours) * time.Hour), nil
}
