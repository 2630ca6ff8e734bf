package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundops_backend/internal/feature/auth/domain/entity"
	"fundops_backend/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, userID uint, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.client, "client is nil")
	assert.Equal(t, "session", repo.prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{
			name:    "success: create session",
			session: createTestSession("session-001", 1, 7*24*time.Hour),
			wantErr: false,
		},
		{
			name:    "failure: expired session",
			session: createTestSession("expired-session", 1, -1*time.Hour),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)

				// Verify session exists in Redis
				data, err := client.Get(context.Background(), repo.sessionKey(tt.session.ID)).Result()
				assert.NoError(t, err)
				assert.NotEmpty(t, data)

				// Verify session ID is in user's session set
				isMember, err := client.SIsMember(context.Background(), repo.userSessionsKey(tt.session.UserID), tt.session.ID).Result()
				assert.NoError(t, err)
				assert.True(t, isMember)
			}
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sessionID   string
		setupFunc   func(t *testing.T, repo *SessionRedis)
		expectedErr error
	}{
		{
			name:      "success: find session",
			sessionID: "find-session-id",
			setupFunc: func(t *testing.T, repo *SessionRedis) {
				session := createTestSession("find-session-id", 1, 7*24*time.Hour)
				err := repo.Create(context.Background(), session)
				require.NoError(t, err)
			},
		},
		{
			name:        "failure: session not found",
			sessionID:   "nonexistent-id",
			expectedErr: usecase.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			found, err := repo.FindByID(context.Background(), tt.sessionID)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, found)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, tt.sessionID, found.ID)
			}
		})
	}
}

func TestSessionRedis_FindByUserID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	session1 := createTestSession("session-1", 1, 7*24*time.Hour)
	session2 := createTestSession("session-2", 1, 7*24*time.Hour)
	session3 := createTestSession("session-3", 2, 7*24*time.Hour)

	require.NoError(t, repo.Create(context.Background(), session1))
	require.NoError(t, repo.Create(context.Background(), session2))
	require.NoError(t, repo.Create(context.Background(), session3))

	sessions, err := repo.FindByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)

	sessions, err = repo.FindByUserID(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)

	sessions, err = repo.FindByUserID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Len(t, sessions, 0)
}

func TestSessionRedis_FindByUserID_PrunesExpired(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	session := createTestSession("short-lived", 1, time.Minute)
	require.NoError(t, repo.Create(context.Background(), session))

	// Let the session key expire inside miniredis
	mr.FastForward(2 * time.Minute)

	sessions, err := repo.FindByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, sessions, 0)

	// The dangling set member should have been pruned
	isMember, err := client.SIsMember(context.Background(), repo.userSessionsKey(1), "short-lived").Result()
	assert.NoError(t, err)
	assert.False(t, isMember)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	t.Run("success: revoke session", func(t *testing.T) {
		t.Parallel()

		client, _ := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")

		session := createTestSession("revoke-session-id", 1, 7*24*time.Hour)
		require.NoError(t, repo.Create(context.Background(), session))

		err := repo.Revoke(context.Background(), "revoke-session-id")

		assert.NoError(t, err)
		found, err := repo.FindByID(context.Background(), "revoke-session-id")
		assert.NoError(t, err)
		assert.NotNil(t, found.RevokedAt)
	})

	t.Run("failure: session not found", func(t *testing.T) {
		t.Parallel()

		client, _ := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")

		err := repo.Revoke(context.Background(), "nonexistent-id")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_RevokeAllByUserID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	session1 := createTestSession("session-1", 1, 7*24*time.Hour)
	session2 := createTestSession("session-2", 1, 7*24*time.Hour)
	session3 := createTestSession("session-3", 2, 7*24*time.Hour)

	require.NoError(t, repo.Create(context.Background(), session1))
	require.NoError(t, repo.Create(context.Background(), session2))
	require.NoError(t, repo.Create(context.Background(), session3))

	err := repo.RevokeAllByUserID(context.Background(), 1)
	assert.NoError(t, err)

	found1, _ := repo.FindByID(context.Background(), "session-1")
	found2, _ := repo.FindByID(context.Background(), "session-2")
	assert.NotNil(t, found1.RevokedAt)
	assert.NotNil(t, found2.RevokedAt)

	found3, _ := repo.FindByID(context.Background(), "session-3")
	assert.Nil(t, found3.RevokedAt)
}

func TestSessionRedis_CountByUserID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	session1 := createTestSession("active-1", 1, 7*24*time.Hour)
	session2 := createTestSession("active-2", 1, 7*24*time.Hour)

	require.NoError(t, repo.Create(context.Background(), session1))
	require.NoError(t, repo.Create(context.Background(), session2))

	require.NoError(t, repo.Revoke(context.Background(), "active-1"))

	count, err := repo.CountByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count, "should only count active (non-revoked) sessions")
}

func TestSessionRedis_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	now := time.Now()
	oldest := &entity.Session{
		ID:        "oldest-session",
		UserID:    1,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	newest := &entity.Session{
		ID:        "newest-session",
		UserID:    1,
		CreatedAt: now.Add(-1 * time.Hour),
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	require.NoError(t, repo.Create(context.Background(), oldest))
	require.NoError(t, repo.Create(context.Background(), newest))

	err := repo.DeleteOldestByUserID(context.Background(), 1)
	assert.NoError(t, err)

	_, err = repo.FindByID(context.Background(), "oldest-session")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	found, err := repo.FindByID(context.Background(), "newest-session")
	assert.NoError(t, err)
	assert.Equal(t, "newest-session", found.ID)

	t.Run("no sessions is not an error", func(t *testing.T) {
		err := repo.DeleteOldestByUserID(context.Background(), 42)
		assert.NoError(t, err)
	})
}
