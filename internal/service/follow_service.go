package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowService manages subscriptions between users and the authors they read.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes followerID to the author named username and returns the
// author. Following oneself is a silent no-op; repeating a follow keeps a
// single edge.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == followerID {
		return author, nil
	}
	if err := s.followRepo.Create(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.followRepo.Delete(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// IsFollowing is false for anonymous viewers and for an author viewing themselves.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}
