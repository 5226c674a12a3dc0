package repository

import (
	"Folio/internal/models"
	"Folio/internal/testutil"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByUsername(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	created := testutil.CreateUser(t, db, "bob", "pw", models.RoleAdmin)

	user, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)

	user, err = repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "carol", "pw", models.RoleUser)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.Session{Token: "live", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{Token: "stale", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}))

	session, err := repo.FindByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, session.User)
	assert.Equal(t, "carol", session.User.Username)

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, repo.Delete(ctx, "live"))
	session, err = repo.FindByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestOrphanBlobRepository_RecordAndRetry(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := NewOrphanBlobRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "Math/a.pdf", errors.New("disk busy")))
	require.NoError(t, repo.Record(ctx, "Math/b.pdf", nil))

	batch, err := repo.FindBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "disk busy", batch[0].LastError)

	require.NoError(t, repo.MarkFailed(ctx, &batch[0], errors.New("still busy")))
	batch, err = repo.FindBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Math/b.pdf", batch[0].BlobKey)
	assert.Equal(t, 2, batch[1].Attempts)

	require.NoError(t, repo.Delete(ctx, batch[0].ID))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
