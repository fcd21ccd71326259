package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
)

func newDashboardFixture(t *testing.T) (*memorySessionRepo, *memoryCreditRepo, *redis.Client, DashboardService) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := newMemorySessionRepo()
	credits := newMemoryCreditRepo()
	service := NewDashboardService(sessions, credits, client, time.Minute, zerolog.Nop())
	return sessions, credits, client, service
}

func TestStudentDashboardCountsByStatus(t *testing.T) {
	sessions, credits, _, service := newDashboardFixture(t)

	seedSession(t, sessions, models.SessionRequested)
	seedSession(t, sessions, models.SessionAccepted)
	seedSession(t, sessions, models.SessionCompleted)
	seedSession(t, sessions, models.SessionCompleted)

	require.NoError(t, credits.Create(context.Background(), &models.CreditEntry{
		StudentID: 5, GrantedSessionID: 1, GrantedAt: time.Now(),
	}))

	dashboard, err := service.GetStudentDashboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 1, dashboard.PendingRequests)
	require.Equal(t, 1, dashboard.AwaitingPayment)
	require.Equal(t, 2, dashboard.CompletedCount)
	require.Equal(t, 1, dashboard.AvailableCredits)
}

func TestStudentDashboardServedFromCache(t *testing.T) {
	sessions, _, _, service := newDashboardFixture(t)
	seedSession(t, sessions, models.SessionRequested)

	first, err := service.GetStudentDashboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 1, first.PendingRequests)

	// A write that skips invalidation is not visible until the TTL lapses.
	seedSession(t, sessions, models.SessionRequested)

	cached, err := service.GetStudentDashboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 1, cached.PendingRequests)
}

func TestInvalidateStudentDropsCache(t *testing.T) {
	sessions, _, client, service := newDashboardFixture(t)
	seedSession(t, sessions, models.SessionRequested)

	_, err := service.GetStudentDashboard(context.Background(), 5)
	require.NoError(t, err)

	exists, err := client.Exists(context.Background(), "dashboard:student:5").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, exists)

	seedSession(t, sessions, models.SessionRequested)
	service.InvalidateStudent(context.Background(), 5)

	fresh, err := service.GetStudentDashboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.PendingRequests)
}
