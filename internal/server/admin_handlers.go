package server

import (
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClearPageCache handles POST /admin/cache/clear. It is the only way, besides
// the admin CLI, to drop cached pages before they expire.
func (s *Server) ClearPageCache(c *fiber.Ctx) error {
	if err := s.pageStore.Clear(c.UserContext()); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	userID, _ := middleware.CurrentUserID(c)
	middleware.Logger.InfoContext(c.UserContext(), "page cache cleared",
		slog.Uint64("admin_id", uint64(userID)),
		slog.String("backend", s.pageStore.Backend()),
	)
	return c.JSON(fiber.Map{
		"status":  "cleared",
		"backend": s.pageStore.Backend(),
	})
}
