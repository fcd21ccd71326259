package models

import "time"

const (
	// VerificationPending marks a tutor awaiting an admin decision.
	VerificationPending = "Pending"
	// VerificationApproved marks a tutor cleared to appear to students.
	VerificationApproved = "Approved"
	// VerificationRejected marks a tutor whose application was declined.
	VerificationRejected = "Rejected"
)

// Verification is an admin-issued approval or rejection record for a tutor.
type Verification struct {
	ID                uint      `gorm:"primaryKey" json:"verification_id"`
	VerifiedByAdminID uint      `gorm:"not null" json:"verified_by_admin_id"`
	Status            string    `gorm:"size:16;not null" json:"status"`
	Type              string    `gorm:"size:16;not null;default:tutor" json:"type"`
	Notes             string    `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}
