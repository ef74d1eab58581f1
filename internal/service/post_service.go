package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// ImageStore persists an uploaded image and returns its media-relative path.
type ImageStore interface {
	Store(ctx context.Context, upload ImageUpload) (string, error)
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStore
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
	// Image replaces the stored image when set; otherwise the current one is kept.
	Image *ImageUpload
}

// NewPostService wires the post service. images may be nil, in which case
// uploads are rejected.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validatePostForm(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     strings.TrimSpace(in.Text),
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}
	if in.Image != nil {
		path, err := s.storeImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost edits a post on behalf of its author. Any other caller gets a
// FORBIDDEN error and the post is left untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}
	if err := s.validatePostForm(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = strings.TrimSpace(in.Text)
	post.GroupID = in.GroupID
	post.Group = nil
	if in.Image != nil {
		path, err := s.storeImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post on behalf of its author. Cached pages are not invalidated.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// CountByAuthor returns the number of posts written by authorID.
func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.postRepo.Count(ctx, repository.PostFilter{AuthorID: &authorID})
}

func (s *PostService) validatePostForm(ctx context.Context, text string, groupID *uint) error {
	fields := map[string]string{}
	if err := validation.ValidateText(text); err != nil {
		fields["text"] = err.Error()
	}
	if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			if !models.HasCode(err, models.CodeNotFound) {
				return err
			}
			fields["group"] = "select a valid choice"
		}
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}
	return nil
}

func (s *PostService) storeImage(ctx context.Context, upload ImageUpload) (string, error) {
	if s.images == nil {
		return "", models.NewFieldValidationError(map[string]string{"image": "image uploads are disabled"})
	}
	path, err := s.images.Store(ctx, upload)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation && appErr.Fields == nil {
			return "", models.NewFieldValidationError(map[string]string{"image": appErr.Message})
		}
		return "", err
	}
	return path, nil
}
