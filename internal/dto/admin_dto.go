package dto

import (
	"time"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

// VerificationDecision is the admin payload approving or rejecting a tutor.
type VerificationDecision struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
	Notes  string `json:"notes"`
}

// VerificationResponse is the client-facing view of a verification record.
type VerificationResponse struct {
	ID                uint      `json:"verification_id"`
	VerifiedByAdminID uint      `json:"verified_by_admin_id"`
	Status            string    `json:"status"`
	Type              string    `json:"type"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// TutorStatusResponse reports where a tutor stands in the verification
// workflow.
type TutorStatusResponse struct {
	TutorID      uint                  `json:"tutor_id"`
	Status       string                `json:"status"`
	Verification *VerificationResponse `json:"verification"`
}

// NewVerificationResponse converts a Verification model into a DTO.
func NewVerificationResponse(model models.Verification) VerificationResponse {
	return VerificationResponse{
		ID:                model.ID,
		VerifiedByAdminID: model.VerifiedByAdminID,
		Status:            model.Status,
		Type:              model.Type,
		Notes:             model.Notes,
		CreatedAt:         model.CreatedAt,
	}
}
