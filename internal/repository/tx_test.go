package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

func TestUnitOfWorkCommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	session := createSession(t, db, student, offering, "10:00", models.SessionAccepted)

	uow := NewUnitOfWork(db)
	err := uow.Do(context.Background(), func(r Repositories) error {
		session.Status = models.SessionPaid
		if err := r.Sessions.Update(context.Background(), &session); err != nil {
			return err
		}
		return r.Payments.Create(context.Background(), &models.Payment{
			SessionID:     session.ID,
			Amount:        2500,
			Currency:      "LKR",
			Status:        models.PaymentStatusPaid,
			Method:        "VISA",
			Provider:      "PayHere",
			TransactionID: "PH-1",
		})
	})
	require.NoError(t, err)

	stored, err := NewSessionRepository(db).GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionPaid, stored.Status)

	payment, err := NewPaymentRepository(db).GetByTransactionID(context.Background(), "PH-1")
	require.NoError(t, err)
	require.Equal(t, session.ID, payment.SessionID)
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	session := createSession(t, db, student, offering, "10:00", models.SessionPaid)

	boom := errors.New("boom")
	uow := NewUnitOfWork(db)
	err := uow.Do(context.Background(), func(r Repositories) error {
		session.Status = models.SessionCancelled
		if err := r.Sessions.Update(context.Background(), &session); err != nil {
			return err
		}
		if err := r.Credits.Create(context.Background(), &models.CreditEntry{
			StudentID:        session.StudentID,
			GrantedSessionID: session.ID,
			GrantedAt:        time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither write survives the rollback.
	stored, err := NewSessionRepository(db).GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionPaid, stored.Status)

	_, err = NewCreditRepository(db).OldestUnredeemed(context.Background(), session.StudentID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentRepositoryRejectsDuplicateTransaction(t *testing.T) {
	db := setupTestDB(t)
	student, offering := seedBooking(t, db)
	session := createSession(t, db, student, offering, "10:00", models.SessionAccepted)

	repo := NewPaymentRepository(db)
	payment := models.Payment{
		SessionID:     session.ID,
		Amount:        2500,
		Currency:      "LKR",
		Status:        models.PaymentStatusPaid,
		Method:        "VISA",
		Provider:      "PayHere",
		TransactionID: "PH-DUP",
	}
	require.NoError(t, repo.Create(context.Background(), &payment))

	duplicate := payment
	duplicate.ID = 0
	require.Error(t, repo.Create(context.Background(), &duplicate))
}
