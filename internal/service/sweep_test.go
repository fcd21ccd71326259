package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

func TestSweepCompletesEndedPaidSessions(t *testing.T) {
	repo := newMemorySessionRepo()
	ended := seedSession(t, repo, models.SessionPaid) // 2026-09-10 10:00, 2h
	upcoming := seedSession(t, repo, models.SessionPaid)

	sweeper := NewCompletionSweeper(repo, time.Minute, zerolog.Nop())
	sweeper.now = func() time.Time {
		// Between the first session's end (12:00) and midnight.
		return time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC)
	}

	// Push the second session to a later slot so it is still running.
	session := repo.sessions[upcoming.ID]
	session.StartTime = "14:00"
	repo.sessions[upcoming.ID] = session

	sweeper.RunOnce(context.Background())

	require.Equal(t, models.SessionCompleted, repo.sessions[ended.ID].Status)
	require.Equal(t, models.SessionPaid, repo.sessions[upcoming.ID].Status)
}

func TestSweepIgnoresNonPaidSessions(t *testing.T) {
	repo := newMemorySessionRepo()
	accepted := seedSession(t, repo, models.SessionAccepted)

	sweeper := NewCompletionSweeper(repo, time.Minute, zerolog.Nop())
	sweeper.now = func() time.Time {
		return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	sweeper.RunOnce(context.Background())

	require.Equal(t, models.SessionAccepted, repo.sessions[accepted.ID].Status)
}

func TestSweepSkipsSessionAlreadyMoved(t *testing.T) {
	repo := newMemorySessionRepo()
	session := seedSession(t, repo, models.SessionPaid)

	sweeper := NewCompletionSweeper(repo, time.Minute, zerolog.Nop())
	sweeper.now = func() time.Time {
		return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	// Another writer cancels between the listing and the guarded update.
	moved := repo.sessions[session.ID]
	listed, err := repo.ListByStatus(context.Background(), models.SessionPaid)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	moved.Status = models.SessionCancelled
	repo.sessions[session.ID] = moved

	sweeper.RunOnce(context.Background())

	require.Equal(t, models.SessionCancelled, repo.sessions[session.ID].Status)
}
