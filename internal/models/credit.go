package models

import "time"

// CreditEntry is one row in the append-only free-session credit ledger. A
// grant is created when a paid session is cancelled; redemption fills in
// RedeemedAt and the session the credit paid for. The ledger replaces the
// old single boolean flag so a student can hold several credits and the
// history stays auditable.
type CreditEntry struct {
	ID                uint       `gorm:"primaryKey" json:"credit_id"`
	StudentID         uint       `gorm:"not null;index" json:"student_id"`
	GrantedSessionID  uint       `gorm:"not null" json:"granted_session_id"`
	GrantedAt         time.Time  `gorm:"not null" json:"granted_at"`
	RedeemedAt        *time.Time `json:"redeemed_at"`
	RedeemedSessionID *uint      `json:"redeemed_session_id"`
}

// Redeemed reports whether the credit has already been spent.
func (c CreditEntry) Redeemed() bool {
	return c.RedeemedAt != nil
}
