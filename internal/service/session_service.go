package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/observability"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

var (
	// ErrSessionNotFound indicates the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidTransition indicates the requested status change is not
	// allowed from the session's current status.
	ErrInvalidTransition = errors.New("invalid session status transition")
	// ErrBookingConflict indicates the proposed slot overlaps an existing
	// booking.
	ErrBookingConflict = errors.New("booking conflict")
)

// PaymentConfirmation is the provider-agnostic payment event the state
// machine consumes.
type PaymentConfirmation struct {
	SessionID     uint
	TransactionID string
	Amount        float64
	Currency      string
	Method        string
	Status        string
}

// DashboardInvalidator drops cached dashboard entries after session writes.
type DashboardInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID uint)
}

// SessionService drives the session lifecycle: booking requests, tutor
// decisions, payment-triggered transitions and cancellations.
type SessionService interface {
	Request(ctx context.Context, payload dto.SessionRequestCreate) (dto.SessionResponse, error)
	ChangeStatus(ctx context.Context, sessionID uint, payload dto.SessionStatusUpdate) (dto.SessionResponse, error)
	ConfirmPayment(ctx context.Context, confirm PaymentConfirmation) (dto.SessionResponse, error)
	Get(ctx context.Context, id uint) (dto.SessionResponse, error)
	ListForStudent(ctx context.Context, studentID uint, status string) ([]dto.SessionResponse, error)
	ListForTutor(ctx context.Context, tutorID uint, status string) ([]dto.SessionResponse, error)
}

type sessionService struct {
	sessions    repository.SessionRepository
	payments    repository.PaymentRepository
	uow         repository.UnitOfWork
	schedule    ScheduleService
	mailer      Mailer
	invalidator DashboardInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	frontendURL string
	now         func() time.Time
}

// NewSessionService constructs the session lifecycle service.
func NewSessionService(
	sessions repository.SessionRepository,
	payments repository.PaymentRepository,
	uow repository.UnitOfWork,
	schedule ScheduleService,
	mailer Mailer,
	invalidator DashboardInvalidator,
	validate *validator.Validate,
	frontendURL string,
	logger zerolog.Logger,
) SessionService {
	return &sessionService{
		sessions:    sessions,
		payments:    payments,
		uow:         uow,
		schedule:    schedule,
		mailer:      mailer,
		invalidator: invalidator,
		validator:   validate,
		frontendURL: frontendURL,
		logger:      logger.With().Str("component", "session_service").Logger(),
		now:         time.Now,
	}
}

func (s *sessionService) Request(ctx context.Context, payload dto.SessionRequestCreate) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	if _, err := models.ParseClock(payload.StartTime); err != nil {
		return dto.SessionResponse{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	conflict, err := s.schedule.CheckStudentConflict(ctx, payload.StudentID, payload.Date, payload.StartTime)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	if conflict.Conflict {
		return dto.SessionResponse{}, ErrBookingConflict
	}

	day, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	session := models.Session{
		TutorSubjectID: payload.TutorSubjectID,
		StudentID:      payload.StudentID,
		Date:           datatypes.Date(day),
		StartTime:      payload.StartTime,
		DurationHours:  payload.DurationHours,
		StudentNote:    payload.StudentNote,
		Status:         models.SessionRequested,
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	s.invalidateStudent(ctx, session.StudentID)
	s.logger.Info().Uint("session_id", session.ID).Msg("session requested")

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) ChangeStatus(ctx context.Context, sessionID uint, payload dto.SessionStatusUpdate) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	session, err := s.sessions.GetWithParties(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	switch payload.Status {
	case models.SessionAccepted:
		return s.accept(ctx, session, payload.TutorNote)
	case models.SessionDeclined:
		return s.decline(ctx, session)
	case models.SessionCancelled:
		return s.cancel(ctx, session, payload.Reason)
	default:
		return dto.SessionResponse{}, ErrInvalidTransition
	}
}

// accept moves a Requested session forward. When the student holds an
// outstanding credit the session jumps straight to Paid: the oldest grant is
// redeemed, a zero-amount payment row is recorded and a meeting link issued,
// all inside one transaction.
func (s *sessionService) accept(ctx context.Context, session models.Session, tutorNote string) (dto.SessionResponse, error) {
	if !models.CanTransition(session.Status, models.SessionAccepted) {
		return dto.SessionResponse{}, ErrInvalidTransition
	}

	creditApplied := false
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		entry, err := r.Credits.OldestUnredeemed(ctx, session.StudentID)
		switch {
		case err == nil:
			session.Status = models.SessionPaid
			session.MeetingURL = s.meetingLink(session.ID)
			if err := r.Sessions.Update(ctx, &session); err != nil {
				return err
			}
			if err := r.Credits.MarkRedeemed(ctx, entry.ID, session.ID, s.now()); err != nil {
				return err
			}
			payment := models.Payment{
				SessionID:     session.ID,
				Amount:        0,
				Currency:      "LKR",
				Status:        models.PaymentStatusPaid,
				Method:        models.PaymentMethodCredit,
				Provider:      models.PaymentProviderSystem,
				TransactionID: "CREDIT-" + uuid.NewString(),
			}
			if err := r.Payments.Create(ctx, &payment); err != nil {
				return err
			}
			creditApplied = true
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			session.Status = models.SessionAccepted
			if tutorNote != "" {
				session.TutorNote = tutorNote
			}
			return r.Sessions.Update(ctx, &session)
		default:
			return err
		}
	})
	if err != nil {
		return dto.SessionResponse{}, err
	}

	if creditApplied {
		observability.CreditRedemptions().Inc()
		s.notify(ctx, session.Student.User.Email, "Session Accepted & Credit Applied", emailHTML(
			"Session Accepted",
			"Your session has been accepted. Your free session credit was applied automatically.",
			"Join Session", session.MeetingURL,
		))
	} else {
		s.notify(ctx, session.Student.User.Email, "Session Request Accepted", emailHTML(
			"Session Accepted",
			"Your session request has been accepted. Please proceed to payment.",
			"Go to Session", s.sessionURL(session.ID),
		))
	}

	s.invalidateStudent(ctx, session.StudentID)
	s.logger.Info().Uint("session_id", session.ID).Bool("credit_applied", creditApplied).Msg("session accepted")

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) decline(ctx context.Context, session models.Session) (dto.SessionResponse, error) {
	if !models.CanTransition(session.Status, models.SessionDeclined) {
		return dto.SessionResponse{}, ErrInvalidTransition
	}

	session.Status = models.SessionDeclined
	if err := s.sessions.Update(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	s.notify(ctx, session.Student.User.Email, "Session Request Declined", emailHTML(
		"Session Declined",
		"Unfortunately your session request was declined. You can request another slot at any time.",
		"", "",
	))

	s.invalidateStudent(ctx, session.StudentID)
	s.logger.Info().Uint("session_id", session.ID).Msg("session declined")

	return dto.NewSessionResponse(session), nil
}

// cancel is valid from any non-terminal status. Cancelling a Paid session
// additionally grants the student a free-session credit in the same
// transaction.
func (s *sessionService) cancel(ctx context.Context, session models.Session, reason string) (dto.SessionResponse, error) {
	if models.IsTerminalStatus(session.Status) {
		return dto.SessionResponse{}, ErrInvalidTransition
	}

	wasPaid := session.Status == models.SessionPaid
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		session.Status = models.SessionCancelled
		if err := r.Sessions.Update(ctx, &session); err != nil {
			return err
		}
		if wasPaid {
			return r.Credits.Create(ctx, &models.CreditEntry{
				StudentID:        session.StudentID,
				GrantedSessionID: session.ID,
				GrantedAt:        s.now(),
			})
		}
		return nil
	})
	if err != nil {
		return dto.SessionResponse{}, err
	}

	if reason == "" {
		reason = "No reason provided."
	}
	message := fmt.Sprintf(
		"The session scheduled for %s at %s has been cancelled.<br><strong>Reason:</strong> %s",
		time.Time(session.Date).Format("2006-01-02"), session.StartTime, reason,
	)
	if wasPaid {
		observability.CreditGrants().Inc()
		message += "<br><strong>Note:</strong> A free session credit has been applied to the student's account."
	}

	body := emailHTML("Session Cancelled", message, "", "")
	s.notify(ctx, session.Student.User.Email, "Session Cancelled - TuteSkillz", body)
	s.notify(ctx, session.TutorSubject.Tutor.User.Email, "Session Cancelled - TuteSkillz", body)

	s.invalidateStudent(ctx, session.StudentID)
	s.logger.Info().Uint("session_id", session.ID).Bool("credit_granted", wasPaid).Msg("session cancelled")

	return dto.NewSessionResponse(session), nil
}

// ConfirmPayment applies a provider payment event. Confirmations are
// idempotent on transaction id: redelivered webhooks are acknowledged
// without touching the session or inserting a second payment row.
func (s *sessionService) ConfirmPayment(ctx context.Context, confirm PaymentConfirmation) (dto.SessionResponse, error) {
	if _, err := s.payments.GetByTransactionID(ctx, confirm.TransactionID); err == nil {
		s.logger.Info().Str("transaction_id", confirm.TransactionID).Msg("payment already processed, skipping")
		session, err := s.sessions.GetWithParties(ctx, confirm.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SessionResponse{}, ErrSessionNotFound
			}
			return dto.SessionResponse{}, err
		}
		return dto.NewSessionResponse(session), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SessionResponse{}, err
	}

	session, err := s.sessions.GetWithParties(ctx, confirm.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	// Failed settlements are recorded for audit without advancing the session.
	if confirm.Status != models.PaymentStatusPaid {
		payment := models.Payment{
			SessionID:     session.ID,
			Amount:        confirm.Amount,
			Currency:      confirm.Currency,
			Status:        models.PaymentStatusFailed,
			Method:        confirm.Method,
			Provider:      "PayHere",
			TransactionID: confirm.TransactionID,
		}
		if err := s.payments.Create(ctx, &payment); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				s.logger.Info().Str("transaction_id", confirm.TransactionID).Msg("payment already processed, skipping")
				return dto.NewSessionResponse(session), nil
			}
			return dto.SessionResponse{}, err
		}
		observability.PaymentsProcessed().WithLabelValues(models.PaymentStatusFailed).Inc()
		return dto.NewSessionResponse(session), nil
	}

	if !models.CanTransition(session.Status, models.SessionPaid) {
		return dto.SessionResponse{}, ErrInvalidTransition
	}

	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		payment := models.Payment{
			SessionID:     session.ID,
			Amount:        confirm.Amount,
			Currency:      confirm.Currency,
			Status:        models.PaymentStatusPaid,
			Method:        confirm.Method,
			Provider:      "PayHere",
			TransactionID: confirm.TransactionID,
		}
		if err := r.Payments.Create(ctx, &payment); err != nil {
			return err
		}

		session.Status = models.SessionPaid
		session.MeetingURL = s.meetingLink(session.ID)
		return r.Sessions.Update(ctx, &session)
	})
	if err != nil {
		// A concurrent delivery of the same notification can slip past the
		// lookup above; the unique transaction_id index catches it and the
		// loser acknowledges instead of erroring back to the provider.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Info().Str("transaction_id", confirm.TransactionID).Msg("payment already processed, skipping")
			current, getErr := s.sessions.GetWithParties(ctx, confirm.SessionID)
			if getErr != nil {
				return dto.SessionResponse{}, getErr
			}
			return dto.NewSessionResponse(current), nil
		}
		return dto.SessionResponse{}, err
	}

	observability.PaymentsProcessed().WithLabelValues(models.PaymentStatusPaid).Inc()
	s.notify(ctx, session.TutorSubject.Tutor.User.Email, "Session Payment Received - TuteSkillz", emailHTML(
		"Payment Received!",
		fmt.Sprintf("Hello %s, the payment for your session has been received.", session.TutorSubject.Tutor.User.FullName),
		"Go to Session", s.sessionURL(session.ID),
	))

	s.invalidateStudent(ctx, session.StudentID)
	s.logger.Info().
		Uint("session_id", session.ID).
		Str("transaction_id", confirm.TransactionID).
		Msg("payment confirmed")

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, id uint) (dto.SessionResponse, error) {
	session, err := s.sessions.GetWithParties(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) ListForStudent(ctx context.Context, studentID uint, status string) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.ListForStudent(ctx, studentID, status)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *sessionService) ListForTutor(ctx context.Context, tutorID uint, status string) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.ListForTutor(ctx, tutorID, status)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *sessionService) meetingLink(sessionID uint) string {
	return fmt.Sprintf("https://meet.jit.si/session_%d_%d", sessionID, s.now().UnixMilli())
}

func (s *sessionService) sessionURL(sessionID uint) string {
	return fmt.Sprintf("%s/session/%d", s.frontendURL, sessionID)
}

func (s *sessionService) notify(ctx context.Context, to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("email sending failed")
	}
}

func (s *sessionService) invalidateStudent(ctx context.Context, studentID uint) {
	if s.invalidator != nil {
		s.invalidator.InvalidateStudent(ctx, studentID)
	}
}
