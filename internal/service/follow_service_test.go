package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_SelfFollowIsNoop(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 1, Username: username}, nil
	}
	follows := noopFollowRepo()
	follows.createFn = func(_ context.Context, _, _ uint) error {
		t.Fatal("self-follow must not reach storage")
		return nil
	}
	svc := NewFollowService(follows, users)

	author, err := svc.Follow(context.Background(), 1, "me")
	require.NoError(t, err)
	assert.Equal(t, "me", author.Username)
}

func TestFollowService_UnknownAuthor(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", username)
	}
	svc := NewFollowService(noopFollowRepo(), users)

	_, err := svc.Follow(context.Background(), 1, "ghost")
	assertNotFoundError(t, err)
	_, err = svc.Unfollow(context.Background(), 1, "ghost")
	assertNotFoundError(t, err)
}

func TestFollowService_IsFollowing(t *testing.T) {
	calls := 0
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, _, _ uint) (bool, error) {
		calls++
		return true, nil
	}
	svc := NewFollowService(follows, noopUserRepo())
	ctx := context.Background()

	ok, err := svc.IsFollowing(ctx, 0, 5)
	require.NoError(t, err)
	assert.False(t, ok, "anonymous viewer")

	ok, err = svc.IsFollowing(ctx, 5, 5)
	require.NoError(t, err)
	assert.False(t, ok, "author viewing self")

	ok, err = svc.IsFollowing(ctx, 4, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestFollowService_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	followRepo := repository.NewFollowRepository(db)
	svc := NewFollowService(followRepo, repository.NewUserRepository(db))
	ctx := context.Background()

	t.Run("following twice keeps one edge", func(t *testing.T) {
		_, err := svc.Follow(ctx, reader.ID, "author")
		require.NoError(t, err)
		_, err = svc.Follow(ctx, reader.ID, "author")
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", reader.ID, author.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unfollow without an edge is a no-op", func(t *testing.T) {
		_, err := svc.Unfollow(ctx, reader.ID, "author")
		require.NoError(t, err)
		_, err = svc.Unfollow(ctx, reader.ID, "author")
		require.NoError(t, err)

		following, err := svc.IsFollowing(ctx, reader.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("self follow creates nothing", func(t *testing.T) {
		_, err := svc.Follow(ctx, author.ID, "author")
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).Where("user_id = ?", author.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
