package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

type memorySessionRepo struct {
	sessions map[uint]models.Session
	nextID   uint
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[uint]models.Session), nextID: 1}
}

func (m *memorySessionRepo) GetByID(ctx context.Context, id uint) (models.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (m *memorySessionRepo) GetWithParties(ctx context.Context, id uint) (models.Session, error) {
	return m.GetByID(ctx, id)
}

func (m *memorySessionRepo) ListForStudent(ctx context.Context, studentID uint, status string) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.StudentID != studentID {
			continue
		}
		if status != "" && session.Status != status {
			continue
		}
		results = append(results, session)
	}
	return results, nil
}

func (m *memorySessionRepo) ListForTutor(ctx context.Context, tutorID uint, status string) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.TutorSubject.TutorID != tutorID {
			continue
		}
		if status != "" && session.Status != status {
			continue
		}
		results = append(results, session)
	}
	return results, nil
}

func (m *memorySessionRepo) ListForStudentOnDate(ctx context.Context, studentID uint, date datatypes.Date, statuses []string) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.StudentID != studentID || !sameDate(session.Date, date) || !containsStatus(statuses, session.Status) {
			continue
		}
		results = append(results, session)
	}
	return results, nil
}

func (m *memorySessionRepo) ListForTutorOnDate(ctx context.Context, tutorID uint, date datatypes.Date, statuses []string) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.TutorSubject.TutorID != tutorID || !sameDate(session.Date, date) || !containsStatus(statuses, session.Status) {
			continue
		}
		results = append(results, session)
	}
	return results, nil
}

func (m *memorySessionRepo) ListByStatus(ctx context.Context, status string) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.Status == status {
			results = append(results, session)
		}
	}
	return results, nil
}

func (m *memorySessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = m.nextID
	m.nextID++
	session.CreatedAt = time.Now()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) Update(ctx context.Context, session *models.Session) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) UpdateStatusGuarded(ctx context.Context, id uint, from, to string) (bool, error) {
	session, ok := m.sessions[id]
	if !ok || session.Status != from {
		return false, nil
	}
	session.Status = to
	m.sessions[id] = session
	return true, nil
}

func sameDate(a, b datatypes.Date) bool {
	return time.Time(a).Equal(time.Time(b))
}

func containsStatus(statuses []string, status string) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type memoryPaymentRepo struct {
	payments map[string]models.Payment
	nextID   uint
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{payments: make(map[string]models.Payment), nextID: 1}
}

func (m *memoryPaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	payment, ok := m.payments[transactionID]
	if !ok {
		return models.Payment{}, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (m *memoryPaymentRepo) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	results := make([]models.Payment, 0)
	for _, payment := range m.payments {
		if payment.SessionID == sessionID {
			results = append(results, payment)
		}
	}
	return results, nil
}

func (m *memoryPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if _, ok := m.payments[payment.TransactionID]; ok {
		return gorm.ErrDuplicatedKey
	}
	payment.ID = m.nextID
	m.nextID++
	m.payments[payment.TransactionID] = *payment
	return nil
}

type memoryCreditRepo struct {
	entries map[uint]models.CreditEntry
	nextID  uint
}

func newMemoryCreditRepo() *memoryCreditRepo {
	return &memoryCreditRepo{entries: make(map[uint]models.CreditEntry), nextID: 1}
}

func (m *memoryCreditRepo) OldestUnredeemed(ctx context.Context, studentID uint) (models.CreditEntry, error) {
	var oldest *models.CreditEntry
	for id := range m.entries {
		entry := m.entries[id]
		if entry.StudentID != studentID || entry.Redeemed() {
			continue
		}
		if oldest == nil || entry.GrantedAt.Before(oldest.GrantedAt) {
			copied := entry
			oldest = &copied
		}
	}
	if oldest == nil {
		return models.CreditEntry{}, gorm.ErrRecordNotFound
	}
	return *oldest, nil
}

func (m *memoryCreditRepo) CountOutstanding(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	for _, entry := range m.entries {
		if entry.StudentID == studentID && !entry.Redeemed() {
			count++
		}
	}
	return count, nil
}

func (m *memoryCreditRepo) Create(ctx context.Context, entry *models.CreditEntry) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memoryCreditRepo) MarkRedeemed(ctx context.Context, id uint, sessionID uint, at time.Time) error {
	entry, ok := m.entries[id]
	if !ok || entry.Redeemed() {
		return gorm.ErrRecordNotFound
	}
	entry.RedeemedAt = &at
	entry.RedeemedSessionID = &sessionID
	m.entries[id] = entry
	return nil
}

// fakeUnitOfWork runs the closure against the shared in-memory repositories
// without transactional semantics.
type fakeUnitOfWork struct {
	repos repository.Repositories
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(r repository.Repositories) error) error {
	return fn(f.repos)
}

type recordingMailer struct {
	sent []string
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.sent = append(r.sent, to+": "+subject)
	return nil
}

type recordingInvalidator struct {
	students []uint
}

func (r *recordingInvalidator) InvalidateStudent(ctx context.Context, studentID uint) {
	r.students = append(r.students, studentID)
}

type sessionServiceFixture struct {
	sessions    *memorySessionRepo
	payments    *memoryPaymentRepo
	credits     *memoryCreditRepo
	mailer      *recordingMailer
	invalidator *recordingInvalidator
	service     SessionService
}

func newSessionServiceFixture(t *testing.T) *sessionServiceFixture {
	t.Helper()

	sessions := newMemorySessionRepo()
	payments := newMemoryPaymentRepo()
	credits := newMemoryCreditRepo()
	mailer := &recordingMailer{}
	invalidator := &recordingInvalidator{}
	uow := &fakeUnitOfWork{repos: repository.Repositories{
		Sessions: sessions,
		Payments: payments,
		Credits:  credits,
	}}

	validate := validator.New(validator.WithRequiredStructEnabled())
	schedule := NewScheduleService(sessions, zerolog.Nop())
	svc := NewSessionService(sessions, payments, uow, schedule, mailer, invalidator, validate, "https://tuteskillz.example", zerolog.Nop())

	return &sessionServiceFixture{
		sessions:    sessions,
		payments:    payments,
		credits:     credits,
		mailer:      mailer,
		invalidator: invalidator,
		service:     svc,
	}
}

func seedSession(t *testing.T, repo *memorySessionRepo, status string) models.Session {
	t.Helper()

	session := models.Session{
		TutorSubjectID: 7,
		TutorSubject: models.TutorSubject{
			ID:      7,
			TutorID: 3,
			Tutor: models.Tutor{
				UserID: 3,
				User:   models.User{ID: 3, FullName: "Nimal Perera", Email: "tutor@example.com"},
			},
		},
		StudentID: 5,
		Student: models.Student{
			UserID: 5,
			User:   models.User{ID: 5, FullName: "Kasun Silva", Email: "student@example.com"},
		},
		Date:          datatypes.Date(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
		StartTime:     "10:00",
		DurationHours: 2,
		Status:        status,
	}
	require.NoError(t, repo.Create(context.Background(), &session))
	return session
}

func TestRequestCreatesRequestedSession(t *testing.T) {
	fixture := newSessionServiceFixture(t)

	response, err := fixture.service.Request(context.Background(), dto.SessionRequestCreate{
		TutorSubjectID: 7,
		StudentID:      5,
		Date:           "2026-09-10",
		StartTime:      "10:00",
		DurationHours:  2,
		StudentNote:    "Algebra revision",
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionRequested, response.Status)
	require.NotZero(t, response.ID)
	require.Contains(t, fixture.invalidator.students, uint(5))
}

func TestRequestRejectsOverlappingSlot(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	seedSession(t, fixture.sessions, models.SessionRequested)

	_, err := fixture.service.Request(context.Background(), dto.SessionRequestCreate{
		TutorSubjectID: 7,
		StudentID:      5,
		Date:           "2026-09-10",
		StartTime:      "10:30",
		DurationHours:  2,
	})
	require.ErrorIs(t, err, ErrBookingConflict)
}

func TestRequestRejectsMalformedStartTime(t *testing.T) {
	fixture := newSessionServiceFixture(t)

	_, err := fixture.service.Request(context.Background(), dto.SessionRequestCreate{
		TutorSubjectID: 7,
		StudentID:      5,
		Date:           "2026-09-10",
		StartTime:      "25:99",
		DurationHours:  2,
	})
	require.ErrorIs(t, err, ErrInvalidTime)
}

func TestAcceptWithoutCredit(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	response, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status:    models.SessionAccepted,
		TutorNote: "Bring your workbook",
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionAccepted, response.Status)
	require.Empty(t, response.MeetingURL)

	stored := fixture.sessions.sessions[session.ID]
	require.Equal(t, "Bring your workbook", stored.TutorNote)
	require.Len(t, fixture.mailer.sent, 1)
}

func TestAcceptWithCreditJumpsToPaid(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	require.NoError(t, fixture.credits.Create(context.Background(), &models.CreditEntry{
		StudentID:        5,
		GrantedSessionID: 99,
		GrantedAt:        time.Now().Add(-time.Hour),
	}))

	response, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionAccepted,
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionPaid, response.Status)
	require.Contains(t, response.MeetingURL, "meet.jit.si/session_")

	_, err = fixture.credits.OldestUnredeemed(context.Background(), 5)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	payments, err := fixture.payments.ListBySession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Zero(t, payments[0].Amount)
	require.Equal(t, models.PaymentMethodCredit, payments[0].Method)
	require.True(t, strings.HasPrefix(payments[0].TransactionID, "CREDIT-"))
}

func TestAcceptRedeemsOldestCreditFirst(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	older := models.CreditEntry{StudentID: 5, GrantedSessionID: 90, GrantedAt: time.Now().Add(-48 * time.Hour)}
	newer := models.CreditEntry{StudentID: 5, GrantedSessionID: 91, GrantedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, fixture.credits.Create(context.Background(), &older))
	require.NoError(t, fixture.credits.Create(context.Background(), &newer))

	_, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionAccepted,
	})
	require.NoError(t, err)

	require.True(t, fixture.credits.entries[older.ID].Redeemed())
	require.False(t, fixture.credits.entries[newer.ID].Redeemed())
}

func TestAcceptRejectedFromPaid(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionPaid)

	_, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionAccepted,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeclineRequested(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	response, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionDeclined,
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionDeclined, response.Status)
}

func TestCancelPaidGrantsCredit(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionPaid)

	response, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionCancelled,
		Reason: "Tutor unavailable",
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionCancelled, response.Status)

	count, err := fixture.credits.CountOutstanding(context.Background(), 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Both parties are told.
	require.Len(t, fixture.mailer.sent, 2)
}

func TestCancelRequestedGrantsNoCredit(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	_, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionCancelled,
	})
	require.NoError(t, err)

	count, err := fixture.credits.CountOutstanding(context.Background(), 5)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCancelRejectedFromTerminalStatus(t *testing.T) {
	fixture := newSessionServiceFixture(t)

	for _, status := range []string{models.SessionCompleted, models.SessionDeclined, models.SessionCancelled} {
		session := seedSession(t, fixture.sessions, status)
		_, err := fixture.service.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
			Status: models.SessionCancelled,
		})
		require.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestChangeStatusUnknownSession(t *testing.T) {
	fixture := newSessionServiceFixture(t)

	_, err := fixture.service.ChangeStatus(context.Background(), 404, dto.SessionStatusUpdate{
		Status: models.SessionAccepted,
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirmPaymentMarksSessionPaid(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionAccepted)

	response, err := fixture.service.ConfirmPayment(context.Background(), PaymentConfirmation{
		SessionID:     session.ID,
		TransactionID: "PH-1001",
		Amount:        2500,
		Currency:      "LKR",
		Method:        "VISA",
		Status:        models.PaymentStatusPaid,
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionPaid, response.Status)
	require.Contains(t, response.MeetingURL, "meet.jit.si/session_")

	payment, err := fixture.payments.GetByTransactionID(context.Background(), "PH-1001")
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, payment.Status)
}

func TestConfirmPaymentIdempotentOnRedelivery(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionAccepted)

	confirm := PaymentConfirmation{
		SessionID:     session.ID,
		TransactionID: "PH-2002",
		Amount:        2500,
		Currency:      "LKR",
		Method:        "VISA",
		Status:        models.PaymentStatusPaid,
	}

	first, err := fixture.service.ConfirmPayment(context.Background(), confirm)
	require.NoError(t, err)

	second, err := fixture.service.ConfirmPayment(context.Background(), confirm)
	require.NoError(t, err)
	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.MeetingURL, second.MeetingURL)

	payments, err := fixture.payments.ListBySession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
}

func TestConfirmPaymentFailureRecordsWithoutAdvancing(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionAccepted)

	response, err := fixture.service.ConfirmPayment(context.Background(), PaymentConfirmation{
		SessionID:     session.ID,
		TransactionID: "PH-3003",
		Amount:        2500,
		Currency:      "LKR",
		Method:        "VISA",
		Status:        models.PaymentStatusFailed,
	})
	require.NoError(t, err)
	require.Equal(t, models.SessionAccepted, response.Status)

	payment, err := fixture.payments.GetByTransactionID(context.Background(), "PH-3003")
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, payment.Status)
}

func TestConfirmPaymentRejectsRequestedSession(t *testing.T) {
	fixture := newSessionServiceFixture(t)
	session := seedSession(t, fixture.sessions, models.SessionRequested)

	_, err := fixture.service.ConfirmPayment(context.Background(), PaymentConfirmation{
		SessionID:     session.ID,
		TransactionID: "PH-4004",
		Status:        models.PaymentStatusPaid,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

// failingPaymentRepo rejects inserts with a configured error.
type failingPaymentRepo struct {
	*memoryPaymentRepo
	createErr error
}

func (m *failingPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	return m.memoryPaymentRepo.Create(ctx, payment)
}

// hiddenLookupPaymentRepo answers transaction-id lookups with not-found while
// the backing store keeps its duplicate guard on insert.
type hiddenLookupPaymentRepo struct {
	*memoryPaymentRepo
}

func (m *hiddenLookupPaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	return models.Payment{}, gorm.ErrRecordNotFound
}

// rollbackUnitOfWork snapshots the in-memory stores before running the
// closure and restores them when it errors, mirroring a rolled-back
// transaction.
type rollbackUnitOfWork struct {
	sessions *memorySessionRepo
	payments *memoryPaymentRepo
	credits  *memoryCreditRepo
	repos    repository.Repositories
}

func (u *rollbackUnitOfWork) Do(ctx context.Context, fn func(r repository.Repositories) error) error {
	sessionSnapshot := cloneMap(u.sessions.sessions)
	paymentSnapshot := cloneMap(u.payments.payments)
	creditSnapshot := cloneMap(u.credits.entries)

	if err := fn(u.repos); err != nil {
		u.sessions.sessions = sessionSnapshot
		u.payments.payments = paymentSnapshot
		u.credits.entries = creditSnapshot
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func TestAcceptWithCreditRollsBackWhenPaymentInsertFails(t *testing.T) {
	sessions := newMemorySessionRepo()
	credits := newMemoryCreditRepo()
	payments := &failingPaymentRepo{memoryPaymentRepo: newMemoryPaymentRepo(), createErr: gorm.ErrInvalidData}
	mailer := &recordingMailer{}
	uow := &rollbackUnitOfWork{
		sessions: sessions,
		payments: payments.memoryPaymentRepo,
		credits:  credits,
		repos: repository.Repositories{
			Sessions: sessions,
			Payments: payments,
			Credits:  credits,
		},
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	schedule := NewScheduleService(sessions, zerolog.Nop())
	svc := NewSessionService(sessions, payments, uow, schedule, mailer, &recordingInvalidator{}, validate, "https://tuteskillz.example", zerolog.Nop())

	session := seedSession(t, sessions, models.SessionRequested)
	credit := models.CreditEntry{StudentID: 5, GrantedSessionID: 99, GrantedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, credits.Create(context.Background(), &credit))

	_, err := svc.ChangeStatus(context.Background(), session.ID, dto.SessionStatusUpdate{
		Status: models.SessionAccepted,
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	entry, err := credits.OldestUnredeemed(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, credit.ID, entry.ID)
	require.False(t, entry.Redeemed())

	require.Equal(t, models.SessionRequested, sessions.sessions[session.ID].Status)

	rows, err := payments.ListBySession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Empty(t, mailer.sent)
}

func TestConfirmPaymentConcurrentRedeliveryAcknowledged(t *testing.T) {
	sessions := newMemorySessionRepo()
	credits := newMemoryCreditRepo()
	payments := &hiddenLookupPaymentRepo{memoryPaymentRepo: newMemoryPaymentRepo()}
	mailer := &recordingMailer{}
	uow := &fakeUnitOfWork{repos: repository.Repositories{
		Sessions: sessions,
		Payments: payments,
		Credits:  credits,
	}}

	validate := validator.New(validator.WithRequiredStructEnabled())
	schedule := NewScheduleService(sessions, zerolog.Nop())
	svc := NewSessionService(sessions, payments, uow, schedule, mailer, &recordingInvalidator{}, validate, "https://tuteskillz.example", zerolog.Nop())

	session := seedSession(t, sessions, models.SessionAccepted)

	// The winning delivery has already inserted the payment row; the lookup
	// still misses because that insert committed after this one's check.
	require.NoError(t, payments.memoryPaymentRepo.Create(context.Background(), &models.Payment{
		SessionID:     session.ID,
		Amount:        2500,
		Currency:      "LKR",
		Status:        models.PaymentStatusPaid,
		TransactionID: "PH-5005",
	}))

	response, err := svc.ConfirmPayment(context.Background(), PaymentConfirmation{
		SessionID:     session.ID,
		TransactionID: "PH-5005",
		Amount:        2500,
		Currency:      "LKR",
		Status:        models.PaymentStatusPaid,
	})
	require.NoError(t, err)
	require.NotZero(t, response.ID)

	rows, err := payments.ListBySession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
