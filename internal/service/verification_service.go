package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

// ErrTutorNotFound indicates the referenced tutor does not exist.
var ErrTutorNotFound = errors.New("tutor not found")

// VerificationService runs the admin tutor-approval workflow.
type VerificationService interface {
	// Decide records an admin approval or rejection and repoints the tutor
	// at the new record, superseding any earlier decision.
	Decide(ctx context.Context, tutorID, adminID uint, payload dto.VerificationDecision) (dto.VerificationResponse, error)
	Status(ctx context.Context, tutorID uint) (dto.TutorStatusResponse, error)
}

type verificationService struct {
	tutors    repository.TutorRepository
	uow       repository.UnitOfWork
	mailer    Mailer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewVerificationService constructs the verification workflow service.
func NewVerificationService(tutors repository.TutorRepository, uow repository.UnitOfWork, mailer Mailer, validate *validator.Validate, logger zerolog.Logger) VerificationService {
	return &verificationService{
		tutors:    tutors,
		uow:       uow,
		mailer:    mailer,
		validator: validate,
		logger:    logger.With().Str("component", "verification_service").Logger(),
	}
}

func (s *verificationService) Decide(ctx context.Context, tutorID, adminID uint, payload dto.VerificationDecision) (dto.VerificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.VerificationResponse{}, err
	}

	tutor, err := s.tutors.GetByUserID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerificationResponse{}, ErrTutorNotFound
		}
		return dto.VerificationResponse{}, err
	}

	verification := models.Verification{
		VerifiedByAdminID: adminID,
		Status:            payload.Status,
		Type:              "tutor",
		Notes:             payload.Notes,
	}

	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		if err := r.Verifications.Create(ctx, &verification); err != nil {
			return err
		}
		return r.Tutors.SetVerification(ctx, tutorID, verification.ID)
	})
	if err != nil {
		return dto.VerificationResponse{}, err
	}

	subject := "Tutor Application Approved - TuteSkillz"
	message := fmt.Sprintf("Hello %s, your tutor application has been approved. Students can now find and book you.", tutor.User.FullName)
	if payload.Status == models.VerificationRejected {
		subject = "Tutor Application Update - TuteSkillz"
		message = fmt.Sprintf("Hello %s, unfortunately your tutor application was not approved at this time.", tutor.User.FullName)
	}
	s.notify(ctx, tutor.User.Email, subject, emailHTML("Verification Decision", message, "", ""))

	s.logger.Info().
		Uint("tutor_id", tutorID).
		Uint("verification_id", verification.ID).
		Str("status", payload.Status).
		Msg("tutor verification decided")

	return dto.NewVerificationResponse(verification), nil
}

func (s *verificationService) Status(ctx context.Context, tutorID uint) (dto.TutorStatusResponse, error) {
	tutor, err := s.tutors.GetByUserID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutorStatusResponse{}, ErrTutorNotFound
		}
		return dto.TutorStatusResponse{}, err
	}

	response := dto.TutorStatusResponse{TutorID: tutorID}
	switch {
	case tutor.Verification == nil:
		response.Status = "pending_verification"
	case tutor.Verification.Status == models.VerificationRejected:
		response.Status = "verification_rejected"
	case tutor.Verification.Status == models.VerificationApproved:
		response.Status = "approved"
	default:
		response.Status = "pending_verification"
	}

	if tutor.Verification != nil {
		converted := dto.NewVerificationResponse(*tutor.Verification)
		response.Verification = &converted
	}

	return response, nil
}

func (s *verificationService) notify(ctx context.Context, to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("email sending failed")
	}
}
