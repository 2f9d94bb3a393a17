package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/orgball2608/tweet-fetcher/internal/auth"
	"github.com/orgball2608/tweet-fetcher/internal/probe"
	"github.com/orgball2608/tweet-fetcher/internal/ratelimit"
	"github.com/orgball2608/tweet-fetcher/internal/tweet"
	"github.com/orgball2608/tweet-fetcher/pkg/config"
	"github.com/orgball2608/tweet-fetcher/pkg/logger"
	"go.uber.org/fx"
)

// HealthSource reports the last known state of the browser pool.
type HealthSource interface {
	Status() probe.Status
}

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
	Tweets tweet.Client
	Health HealthSource
}

type Server struct {
	App    *fiber.App
	cfg    *config.Config
	logger logger.Logger
	tweets tweet.Client
	health HealthSource
}

// New builds the server and binds its listener to the fx lifecycle.
func New(opts Opts) *Server {
	s := NewServer(opts.Config, opts.Logger, opts.Tweets, opts.Health)
	addr := fmt.Sprintf(":%d", opts.Config.App.Port)

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				opts.Logger.Info(fmt.Sprintf("Starting server on %s", addr))
				if err := s.App.Listen(addr); err != nil {
					opts.Logger.Error("Server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			opts.Logger.Info("Shutting down server")
			return s.App.ShutdownWithContext(ctx)
		},
	})

	return s
}

func NewServer(cfg *config.Config, log logger.Logger, tweets tweet.Client, health HealthSource) *Server {
	s := &Server{
		cfg:    cfg,
		logger: log,
		tweets: tweets,
		health: health,
	}

	s.App = fiber.New(fiber.Config{
		AppName:               "tweet-fetcher",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.App.Use(recover.New())
	s.App.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.App.Use(s.logRequests)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.App.Get("/healthz", s.healthCheck)

	handlers := []fiber.Handler{requireGet}
	if s.cfg.RateLimit.Requests > 0 {
		limiter := ratelimit.NewInMemoryLimiter(s.cfg.RateLimit.Requests, s.cfg.RateLimit.Per, s.cfg.RateLimit.Burst)
		handlers = append(handlers, ratelimit.Middleware(limiter))
	}
	handlers = append(handlers, auth.Middleware(s.cfg.App.SecretKey), s.getTweet)

	// Every other path serves tweets.
	s.App.All("/*", handlers...)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if hErr := s.errorHandler(c, err); hErr != nil {
			return hErr
		}
	}

	s.logger.Info("request",
		"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return nil
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"sessions": s.health.Status(),
	})
}
