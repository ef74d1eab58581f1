package server

import (
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePostID reads the post_id route parameter. Anything that is not a
// positive integer cannot name a post, so it is answered with 404.
func (s *Server) parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("post_id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("post_id")))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an AppError code onto a page response.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	switch appErr.Code {
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, appErr)
	case models.CodeUnauthorized:
		return c.Redirect(middleware.LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
	case models.CodeForbidden:
		return models.RespondWithError(c, fiber.StatusForbidden, appErr)
	case models.CodeValidation, models.CodeInvalidOperation:
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}
}

// currentUser loads the signed-in user. LoginRequired guarantees an ID is present.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, _ := middleware.CurrentUserID(c)
	return s.userService.GetUserByID(c.UserContext(), userID)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// safeNext accepts only local absolute paths as post-login destinations.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// parseGroupField reads the optional "group" form value. A value that is not
// an ID maps to 0, which never resolves and is reported as an invalid choice.
func parseGroupField(raw string) *uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		id = 0
	}
	groupID := uint(id)
	return &groupID
}

// readImageField returns the uploaded "image" file, or nil when none was sent.
func readImageField(c *fiber.Ctx) (*service.ImageUpload, error) {
	header, err := c.FormFile("image")
	if err != nil || header == nil || header.Size == 0 {
		return nil, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}
