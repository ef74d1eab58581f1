package server

import (
	"errors"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type authForm struct {
	Fields []string          `json:"fields"`
	Next   string            `json:"next"`
	Errors map[string]string `json:"errors,omitempty"`
}

var (
	loginFields  = []string{"username", "password"}
	signupFields = []string{"first_name", "last_name", "username", "email", "password"}
)

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"view": "login",
		"form": authForm{Fields: loginFields, Next: safeNext(c.Query("next"))},
	})
}

// Login handles POST /auth/login/
func (s *Server) Login(c *fiber.Ctx) error {
	next := safeNext(c.FormValue("next", c.Query("next")))

	user, err := s.authService.Authenticate(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"view": "login",
				"form": authForm{
					Fields: loginFields,
					Next:   next,
					Errors: map[string]string{"__all__": "Please enter a correct username and password."},
				},
			})
		}
		return s.respondServiceError(c, err)
	}

	if err := s.startSession(c, user); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Redirect(next, fiber.StatusFound)
}

// SignupForm handles GET /auth/signup/
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"view": "signup",
		"form": authForm{Fields: signupFields, Next: safeNext(c.Query("next"))},
	})
}

// Signup handles POST /auth/signup/. A new account is signed in immediately.
func (s *Server) Signup(c *fiber.Ctx) error {
	next := safeNext(c.FormValue("next", c.Query("next")))

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"view": "signup",
				"form": authForm{Fields: signupFields, Next: next, Errors: appErr.Fields},
			})
		}
		return s.respondServiceError(c, err)
	}

	if err := s.startSession(c, user); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Redirect(next, fiber.StatusFound)
}

// Logout handles POST /auth/logout/
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(middleware.SessionTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
