// Package middleware provides authentication, logging, metrics and rate limiting middleware.
package middleware

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"yatube/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// UserIDLocal is the Fiber locals key holding the authenticated user's ID.
	UserIDLocal = "userID"
	// SessionCookie carries the signed session token for browser clients.
	SessionCookie = "session"

	tokenIssuer   = "yatube"
	tokenAudience = "yatube-web"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 14 * 24 * time.Hour

var cfg *config.Config

// ErrInvalidToken is returned for tokens that fail signature, claim or expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// GenerateToken signs a session token for the user.
func GenerateToken(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(SessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session token and returns the user ID in its subject.
func ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}

// tokenFromRequest reads the session cookie, falling back to a Bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}

	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// OptionalAuth resolves the caller from the session when one is present.
// Anonymous requests and requests carrying a bad token pass through without a user.
func OptionalAuth(c *fiber.Ctx) error {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return c.Next()
	}

	userID, err := ParseToken(tokenString)
	if err != nil {
		return c.Next()
	}

	c.Locals(UserIDLocal, userID)
	// Sync to UserContext for logging and downstream services
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

	return c.Next()
}

// LoginRequired redirects anonymous callers to the login page, passing the
// original request URI as the "next" query parameter.
func LoginRequired(c *fiber.Ctx) error {
	if _, ok := CurrentUserID(c); ok {
		return c.Next()
	}
	return c.Redirect(LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
}

// LoginRedirectURL builds the login URL for an anonymous request to next.
func LoginRedirectURL(next string) string {
	loginURL := config.DefaultLoginURL
	if cfg != nil && cfg.LoginURL != "" {
		loginURL = cfg.LoginURL
	}
	return loginURL + "?next=" + url.QueryEscape(next)
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(UserIDLocal).(uint)
	return userID, ok && userID != 0
}
