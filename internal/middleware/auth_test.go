package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"yatube/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	InitMiddleware(&config.Config{JWTSecret: testSecret, LoginURL: "/auth/login/"})

	app := fiber.New()
	app.Use(OptionalAuth)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c)
		return c.JSON(fiber.Map{"userID": userID, "authenticated": ok})
	})
	app.Get("/create/", LoginRequired, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestGenerateAndParseToken(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	token, err := GenerateToken(42, "leo")
	require.NoError(t, err)

	userID, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseToken_Rejects(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": strconv.Itoa(7),
			"iss": tokenIssuer,
			"aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{"Malformed", func() string { return "malformed.token.here" }},
		{"Expired", func() string {
			claims := valid()
			claims["exp"] = time.Now().Add(-time.Hour).Unix()
			return signClaims(t, claims)
		}},
		{"Wrong Issuer", func() string {
			claims := valid()
			claims["iss"] = "someone-else"
			return signClaims(t, claims)
		}},
		{"Wrong Audience", func() string {
			claims := valid()
			claims["aud"] = "other-client"
			return signClaims(t, claims)
		}},
		{"Missing Subject", func() string {
			claims := valid()
			delete(claims, "sub")
			return signClaims(t, claims)
		}},
		{"Wrong Secret", func() string {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, valid())
			s, _ := token.SignedString([]byte("another-secret"))
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := setupAuthApp(t)
	token, err := GenerateToken(123, "leo")
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		authHeader string
		wantUserID uint
		wantAuthed bool
	}{
		{name: "Anonymous"},
		{name: "Session Cookie", cookie: token, wantUserID: 123, wantAuthed: true},
		{name: "Bearer Header", authHeader: "Bearer " + token, wantUserID: 123, wantAuthed: true},
		{name: "Invalid Cookie Is Ignored", cookie: "garbage"},
		{name: "Invalid Header Format", authHeader: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, float64(tt.wantUserID), body["userID"])
			assert.Equal(t, tt.wantAuthed, body["authenticated"])
		})
	}
}

func TestLoginRequired(t *testing.T) {
	app := setupAuthApp(t)

	t.Run("Anonymous Redirects With Next", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/create/?draft=1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login/?next=%2Fcreate%2F%3Fdraft%3D1", resp.Header.Get("Location"))
	})

	t.Run("Authenticated Passes", func(t *testing.T) {
		token, err := GenerateToken(5, "leo")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLoginRedirectURL_DefaultsWithoutConfig(t *testing.T) {
	InitMiddleware(nil)
	t.Cleanup(func() { InitMiddleware(&config.Config{JWTSecret: testSecret}) })

	assert.Equal(t, config.DefaultLoginURL+"?next=%2Ffollow%2F", LoginRedirectURL("/follow/"))
}
