package workers_test

import (
	"context"
	"testing"
	"time"

	"castboard_backend/internal/models"
	"castboard_backend/internal/testutil"
	"castboard_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCleanupWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, &models.User{Email: "tokens@example.com"}, testutil.TestPassword)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.RefreshToken{UserID: user.ID, TokenID: "old", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{UserID: user.ID, TokenID: "fresh", ExpiresAt: now.Add(time.Hour)}).Error)

	worker := workers.NewTokenCleanupWorker(db, time.Minute)
	assert.Equal(t, int64(1), worker.RunOnce(context.Background()))
	assert.Equal(t, int64(0), worker.RunOnce(context.Background()), "повторный проход ничего не удаляет")

	var left []models.RefreshToken
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].TokenID)
}

func TestTokenCleanupWorker_StopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	worker := workers.NewTokenCleanupWorker(db, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
}
