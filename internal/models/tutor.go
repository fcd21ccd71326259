package models

// Tutor extends a user account with teaching credentials. VerificationID
// points at the most recent verification record; older records are kept for
// audit but are superseded.
type Tutor struct {
	UserID         uint          `gorm:"primaryKey" json:"user_id"`
	User           User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	School         string        `gorm:"size:255" json:"school"`
	University     string        `gorm:"size:255" json:"university"`
	Bio            string        `gorm:"type:text" json:"bio"`
	VerificationID *uint         `json:"verification_id"`
	Verification   *Verification `json:"verification,omitempty"`
}

// IsApproved reports whether the tutor's current verification is approved.
func (t Tutor) IsApproved() bool {
	return t.Verification != nil && t.Verification.Status == VerificationApproved
}
