package server

import (
	"errors"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm describes the create/edit form and its state.
type postForm struct {
	Fields  []string          `json:"fields"`
	Initial fiber.Map         `json:"initial,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Groups  []models.Group    `json:"groups"`
	IsEdit  bool              `json:"is_edit"`
	PostID  uint              `json:"post_id,omitempty"`
}

// commentForm describes the comment form shown on the post page.
type commentForm struct {
	Fields []string `json:"fields"`
	Action string   `json:"action"`
}

func (s *Server) newPostForm(c *fiber.Ctx) (*postForm, error) {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return &postForm{
		Fields: []string{"text", "group", "image"},
		Groups: groups,
	}, nil
}

// renderPostForm writes the form document with the given status.
func (s *Server) renderPostForm(c *fiber.Ctx, status int, form *postForm) error {
	return c.Status(status).JSON(fiber.Map{
		"view": "create_post",
		"form": form,
	})
}

// renderInvalidPostForm re-renders the submitted form with its field errors.
func (s *Server) renderInvalidPostForm(c *fiber.Ctx, err error, form *postForm) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		return s.respondServiceError(c, err)
	}
	form.Errors = appErr.Fields
	if form.Errors == nil {
		form.Errors = map[string]string{"__all__": appErr.Message}
	}
	form.Initial = fiber.Map{
		"text":  c.FormValue("text"),
		"group": c.FormValue("group"),
	}
	return s.renderPostForm(c, fiber.StatusBadRequest, form)
}

// PostDetail handles GET /posts/:post_id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	ctx := c.UserContext()

	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	authorPosts, err := s.postService.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	comments, err := s.commentService.ListComments(ctx, post.ID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return c.JSON(fiber.Map{
		"view":              "post_detail",
		"post":              post,
		"author_name":       post.Author.FullName(),
		"author_post_count": authorPosts,
		"comments":          comments,
		"form": commentForm{
			Fields: []string{"text"},
			Action: postURL(post.ID) + "comment/",
		},
		"media_url": s.config.MediaURL,
	})
}

// PostCreateForm handles GET /create/
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	form, err := s.newPostForm(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.renderPostForm(c, fiber.StatusOK, form)
}

// PostCreate handles POST /create/
func (s *Server) PostCreate(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	form, err := s.newPostForm(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	image, err := readImageField(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	_, err = s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: user.ID,
		Text:     c.FormValue("text"),
		GroupID:  parseGroupField(c.FormValue("group")),
		Image:    image,
	})
	if err != nil {
		return s.renderInvalidPostForm(c, err, form)
	}

	return c.Redirect(profileURL(user.Username), fiber.StatusFound)
}

// PostEditForm handles GET /posts/:post_id/edit/
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if post.AuthorID != userID {
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	}

	form, err := s.newPostForm(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	form.IsEdit = true
	form.PostID = post.ID
	form.Initial = fiber.Map{
		"text":  post.Text,
		"group": post.GroupID,
		"image": post.Image,
	}
	return s.renderPostForm(c, fiber.StatusOK, form)
}

// PostEdit handles POST /posts/:post_id/edit/
func (s *Server) PostEdit(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	image, err := readImageField(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	_, err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Text:    c.FormValue("text"),
		GroupID: parseGroupField(c.FormValue("group")),
		Image:   image,
	})
	switch {
	case err == nil:
		return c.Redirect(postURL(postID), fiber.StatusFound)
	case models.HasCode(err, models.CodeForbidden):
		return c.Redirect(postURL(postID), fiber.StatusFound)
	case models.HasCode(err, models.CodeValidation):
		form, formErr := s.newPostForm(c)
		if formErr != nil {
			return s.respondServiceError(c, formErr)
		}
		form.IsEdit = true
		form.PostID = postID
		return s.renderInvalidPostForm(c, err, form)
	default:
		return s.respondServiceError(c, err)
	}
}

// PostDelete handles POST /posts/:post_id/delete/
func (s *Server) PostDelete(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	err = s.postService.DeletePost(c.UserContext(), postID, user.ID)
	switch {
	case err == nil:
		return c.Redirect(profileURL(user.Username), fiber.StatusFound)
	case models.HasCode(err, models.CodeForbidden):
		return c.Redirect(postURL(postID), fiber.StatusFound)
	default:
		return s.respondServiceError(c, err)
	}
}

// AddComment handles POST /posts/:post_id/comment/. It always lands back on
// the post page; an empty comment is dropped without a message.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	_, err = s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Text:     c.FormValue("text"),
	})
	if err != nil && !models.HasCode(err, models.CodeValidation) {
		return s.respondServiceError(c, err)
	}
	return c.Redirect(postURL(postID), fiber.StatusFound)
}
