package models

// Student extends a user account with learner-specific data.
type Student struct {
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	GuardianID *uint     `json:"guardian_id"`
	Guardian   *Guardian `json:"guardian,omitempty"`
	Grade      string    `gorm:"size:16" json:"grade"`
}
