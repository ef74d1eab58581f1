package service

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	t.Run("blank text is rejected", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.createFn = func(_ context.Context, _ *models.Comment) error {
			t.Fatal("blank comment must not be stored")
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		_, err := svc.AddComment(context.Background(), AddCommentInput{PostID: 1, AuthorID: 2, Text: "   "})
		appErr := assertValidationError(t, err)
		assert.Contains(t, appErr.Fields, "text")
	})

	t.Run("unknown post", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), posts)

		_, err := svc.AddComment(context.Background(), AddCommentInput{PostID: 9, AuthorID: 2, Text: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("stores server-assigned post and author", func(t *testing.T) {
		var stored *models.Comment
		comments := noopCommentRepo()
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		comment, err := svc.AddComment(context.Background(), AddCommentInput{PostID: 3, AuthorID: 4, Text: " nice "})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint(3), comment.PostID)
		assert.Equal(t, uint(4), comment.AuthorID)
		assert.Equal(t, "nice", comment.Text)
	})
}

func TestCommentService_ListComments(t *testing.T) {
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 2, PostID: postID}, {ID: 1, PostID: postID}}, nil
	}
	svc := NewCommentService(comments, noopPostRepo())

	list, err := svc.ListComments(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(8), list[0].PostID)
}
