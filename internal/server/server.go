// Package server contains the HTTP handlers and routing for the yatube pages.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/bootstrap"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	fibercache "github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	pageStore      cache.PageStore

	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	authService    *service.AuthService
	userService    *service.UserService
	groupService   *service.GroupService
	imageService   *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case the page cache lives in process.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		pageStore:      cache.NewPageStore(redisClient, cfg.IndexCacheTTL),
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}

	s.imageService = service.NewImageService(cfg)
	s.feedService = service.NewFeedService(s.postRepo, s.groupRepo, s.userRepo, s.followRepo, cfg.FeedPageSize)
	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.imageService)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.authService = service.NewAuthService(s.userRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.groupService = service.NewGroupService(s.groupRepo)

	return s, nil
}

// PageStore exposes the page cache so operators can clear it out of band.
func (s *Server) PageStore() cache.PageStore {
	return s.pageStore
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	maxUploadMB := s.config.ImageMaxUploadSizeMB
	if maxUploadMB <= 0 {
		maxUploadMB = service.DefaultImageMaxUploadSizeMB
	}

	app := fiber.New(fiber.Config{
		AppName:      "yatube",
		BodyLimit:    (maxUploadMB + 1) * 1024 * 1024,
		ErrorHandler: s.ErrorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// ErrorHandler logs unhandled errors and writes a response that never leaks internals.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000,http://127.0.0.1:8000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	if s.config.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        s.config.RateLimitPerMinute,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later.",
				})
			},
		}))
	}

	// Resolve the session on every request; pages that need a user add LoginRequired.
	app.Use(middleware.OptionalAuth)
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if mediaURL := strings.TrimSuffix(s.config.MediaURL, "/"); strings.HasPrefix(mediaURL, "/") && s.config.MediaRoot != "" {
		app.Static(mediaURL, s.config.MediaRoot, fiber.Static{
			ByteRange: true,
			MaxAge:    3600,
		})
	}

	app.Get("/", s.indexHandlers()...)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/posts/:post_id/", s.PostDetail)

	app.Get("/create/", middleware.LoginRequired, s.PostCreateForm)
	app.Post("/create/", middleware.LoginRequired, s.PostCreate)
	app.Get("/posts/:post_id/edit/", middleware.LoginRequired, s.PostEditForm)
	app.Post("/posts/:post_id/edit/", middleware.LoginRequired, s.PostEdit)
	app.Post("/posts/:post_id/delete/", middleware.LoginRequired, s.PostDelete)
	app.Post("/posts/:post_id/comment/", middleware.LoginRequired, s.AddComment)

	app.Get("/follow/", middleware.LoginRequired, s.FollowIndex)
	app.Get("/profile/:username/follow/", middleware.LoginRequired, s.ProfileFollow)
	app.Get("/profile/:username/unfollow/", middleware.LoginRequired, s.ProfileUnfollow)

	auth := app.Group("/auth")
	auth.Get("/login/", s.LoginForm)
	auth.Post("/login/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/signup/", s.SignupForm)
	auth.Post("/signup/", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/logout/", s.Logout)

	admin := app.Group("/admin", middleware.LoginRequired, s.AdminRequired())
	admin.Post("/cache/clear", s.ClearPageCache)
	admin.Get("/monitor", monitor.New(monitor.Config{
		Title: "yatube metrics",
	}))
}

// indexHandlers wraps the global feed in the page cache. Only this route is
// cached; writes never invalidate it.
func (s *Server) indexHandlers() []fiber.Handler {
	if s.pageStore == nil || s.config.IndexCacheTTL <= 0 {
		return []fiber.Handler{s.Index}
	}
	return []fiber.Handler{
		middleware.PageCacheMetrics(),
		fibercache.New(fibercache.Config{
			Expiration:   s.config.IndexCacheTTL,
			CacheHeader:  "X-Cache",
			CacheControl: false,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.OriginalURL()
			},
			Storage: s.pageStore,
		}),
		s.Index,
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: when
// it is not configured the page cache runs in process and readiness only
// depends on the database.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	checks := fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
	}
	if s.pageStore != nil {
		checks["page_cache"] = s.pageStore.Backend()
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": checks,
		"time":   time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after LoginRequired so that the user ID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			return c.Redirect(middleware.LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
		}

		user, err := s.userService.GetUserByID(c.UserContext(), userID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewForbiddenError("Admin access required"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting",
		slog.String("port", s.config.Port),
		slog.String("page_cache", s.pageStore.Backend()),
	)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
