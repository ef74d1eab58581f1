package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedKind selects which posts a feed shows.
type FeedKind string

const (
	FeedGlobal   FeedKind = "global"
	FeedGroup    FeedKind = "group"
	FeedProfile  FeedKind = "profile"
	FeedFollowed FeedKind = "follow"
)

// FeedRequest describes one feed page. GroupSlug is used by FeedGroup and
// Username by FeedProfile. ViewerID is zero for anonymous viewers.
type FeedRequest struct {
	Kind      FeedKind
	GroupSlug string
	Username  string
	ViewerID  uint
	Page      int
}

// Feed is a page of posts plus the context the view renders around it.
type Feed struct {
	Kind      FeedKind          `json:"kind"`
	Page      Page[models.Post] `json:"page"`
	Group     *models.Group     `json:"group,omitempty"`
	Author    *models.User      `json:"author,omitempty"`
	Following bool              `json:"following"`
	PostCount int64             `json:"post_count,omitempty"`
}

type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	pageSize   int
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
	}
}

// PageSize is the number of posts per feed page.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

func (s *FeedService) BuildFeed(ctx context.Context, req FeedRequest) (feed *Feed, err error) {
	ctx, span := observability.StartSpan(ctx, "FeedService", "BuildFeed",
		attribute.String("feed.kind", string(req.Kind)),
		attribute.Int("feed.page", req.Page),
	)
	defer func() { observability.EndSpan(span, err) }()

	feed = &Feed{Kind: req.Kind}
	var filter repository.PostFilter

	switch req.Kind {
	case FeedGlobal:
	case FeedGroup:
		group, err := s.groupRepo.GetBySlug(ctx, req.GroupSlug)
		if err != nil {
			return nil, err
		}
		feed.Group = group
		filter.GroupID = &group.ID
	case FeedProfile:
		author, err := s.userRepo.GetByUsername(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		feed.Author = author
		filter.AuthorID = &author.ID
		if req.ViewerID != 0 && req.ViewerID != author.ID {
			following, err := s.followRepo.Exists(ctx, req.ViewerID, author.ID)
			if err != nil {
				return nil, err
			}
			feed.Following = following
		}
	case FeedFollowed:
		if req.ViewerID == 0 {
			return nil, models.NewUnauthorizedError("Authentication required")
		}
		viewer := req.ViewerID
		filter.FollowerID = &viewer
	default:
		return nil, models.NewValidationError("Unknown feed kind")
	}

	page, err := s.paginate(ctx, filter, req.Page)
	if err != nil {
		return nil, err
	}
	feed.Page = page
	if feed.Author != nil {
		feed.PostCount = page.Count
	}
	return feed, nil
}

func (s *FeedService) paginate(ctx context.Context, filter repository.PostFilter, number int) (Page[models.Post], error) {
	count, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return Page[models.Post]{}, err
	}
	number = ClampPage(number, NumPages(count, s.pageSize))

	posts, err := s.postRepo.List(ctx, filter, s.pageSize, Offset(number, s.pageSize))
	if err != nil {
		return Page[models.Post]{}, err
	}
	return NewPage(posts, number, s.pageSize, count), nil
}
