package server

import (
	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles GET /profile/:username/follow/
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	author, err := s.followService.Follow(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Redirect(profileURL(author.Username), fiber.StatusFound)
}

// ProfileUnfollow handles GET /profile/:username/unfollow/
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	author, err := s.followService.Unfollow(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Redirect(profileURL(author.Username), fiber.StatusFound)
}
