// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"net/url"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/bootstrap"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginPath is where anonymous callers of protected routes are sent.
const LoginPath = "/api/auth/login"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	pageCache      cache.PageCache
	images         storage.ImageStore
	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	userService    *service.UserService
	groupService   *service.GroupService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedBuiltInGroups: !cfg.IsProduction(),
	})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Images)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case pages are not cached and rate limits
// are kept in process.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images storage.ImageStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	v := validation.New(groupRepo, cfg.MaxUploadBytes())

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: observability.HTTPMetrics(),
		pageCache:      cache.NewPageCache(redisClient, cfg.PageCachePrefix),
		images:         images,
	}
	server.feedService = service.NewFeedService(postRepo, groupRepo, userRepo, commentRepo, followRepo)
	server.postService = service.NewPostService(postRepo, v, images)
	server.commentService = service.NewCommentService(commentRepo, postRepo, v)
	server.followService = service.NewFollowService(followRepo, userRepo)
	server.userService = service.NewUserService(userRepo, v, cfg.JWTSecret)
	server.groupService = service.NewGroupService(groupRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Identity is optional everywhere; protected routes enforce it.
	app.Use(middleware.OptionalAuth(s.config.JWTSecret))

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers. Images are served cross-origin to browser clients.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so browser clients
	// still receive CORS headers on error responses.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Location, X-Cache, X-Trace-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	writeLimit := s.config.RateLimitPerMinute

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/media/*", s.GetMedia)

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/login", s.LoginInfo)

	api.Get("/groups", s.GetGroups)
	api.Get("/groups/:slug/posts", s.GetGroupPosts)

	posts := api.Group("/posts")
	posts.Get("/", s.GetIndex)
	posts.Post("/", s.LoginRequired(),
		middleware.RateLimit(s.redis, writeLimit, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id route
	posts.Post("/:id/edit", s.LoginRequired(),
		middleware.RateLimit(s.redis, writeLimit, time.Minute, "edit_post"), s.EditPost)
	posts.Post("/:id/comments", s.LoginRequired(),
		middleware.RateLimit(s.redis, writeLimit, time.Minute, "create_comment"), s.AddComment)
	posts.Get("/:id", s.GetPost)

	profile := api.Group("/profile")
	profile.Post("/:username/follow", s.LoginRequired(), s.Follow)
	profile.Post("/:username/unfollow", s.LoginRequired(), s.Unfollow)
	profile.Get("/:username", s.GetProfile)

	api.Get("/follow", s.LoginRequired(), s.GetFollowFeed)

	admin := api.Group("/admin", s.LoginRequired(), s.AdminRequired())
	admin.Post("/cache/clear", s.ClearPageCache)
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "inkwell API",
		BodyLimit: int(s.config.MaxUploadBytes()) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.LoggerFromContext(c.UserContext()).Error("unhandled error", zap.Error(err))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// missing client is reported but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
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

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// LoginRequired redirects anonymous callers to the login endpoint with the
// original path in "next". Nothing downstream runs for them.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentUserID(c); ok {
			return c.Next()
		}
		next := url.QueryEscape(c.OriginalURL())
		return c.Redirect(LoginPath+"?next="+next, fiber.StatusFound)
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after LoginRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := middleware.CurrentUserID(c)

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return s.respondError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", zap.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log := middleware.Logger

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Error("error shutting down HTTP server", zap.Error(err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Error("error closing sql DB", zap.Error(cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Error("error closing redis", zap.Error(rerr))
		}
	}

	if closer, ok := s.images.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			log.Error("error closing image storage", zap.Error(cerr))
		}
	}

	log.Info("Server shutdown complete")
	return nil
}
