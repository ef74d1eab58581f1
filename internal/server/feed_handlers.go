package server

import (
	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /. The response is shared through the page cache, so it
// must not depend on who is asking.
func (s *Server) Index(c *fiber.Ctx) error {
	return s.renderFeed(c, service.FeedRequest{Kind: service.FeedGlobal}, "index")
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	return s.renderFeed(c, service.FeedRequest{
		Kind:      service.FeedGroup,
		GroupSlug: c.Params("slug"),
	}, "group_list")
}

// Profile handles GET /profile/:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	viewerID, _ := middleware.CurrentUserID(c)
	return s.renderFeed(c, service.FeedRequest{
		Kind:     service.FeedProfile,
		Username: c.Params("username"),
		ViewerID: viewerID,
	}, "profile")
}

// FollowIndex handles GET /follow/
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	viewerID, _ := middleware.CurrentUserID(c)
	return s.renderFeed(c, service.FeedRequest{
		Kind:     service.FeedFollowed,
		ViewerID: viewerID,
	}, "follow")
}

func (s *Server) renderFeed(c *fiber.Ctx, req service.FeedRequest, view string) error {
	req.Page = service.ParsePageNumber(c.Query("page"))

	feed, err := s.feedService.BuildFeed(c.UserContext(), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	doc := fiber.Map{
		"view":      view,
		"page_obj":  feed.Page,
		"media_url": s.config.MediaURL,
	}
	switch req.Kind {
	case service.FeedGroup:
		doc["group"] = feed.Group
	case service.FeedProfile:
		doc["author"] = feed.Author
		doc["author_name"] = feed.Author.FullName()
		doc["following"] = feed.Following
		doc["post_count"] = feed.PostCount
	}
	return c.JSON(doc)
}
