package models

import "time"

// Note is a PDF document a tutor shares for a session. The document bytes
// live in the database rather than external object storage.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"note_id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Document  []byte    `gorm:"type:bytea" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
