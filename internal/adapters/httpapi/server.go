package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/core"
)

// Server exposes the dispatch and task boundaries over HTTP for the
// dashboard UI
type Server struct {
	app     *fiber.App
	service *core.AnalystService
	logger  *zap.Logger
	addr    string
}

// NewServer creates the fiber app and registers the routes
func NewServer(service *core.AnalystService, addr string, readTimeout, writeTimeout time.Duration, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "outreach-analyst",
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	s := &Server{
		app:     app,
		service: service,
		logger:  logger,
		addr:    addr,
	}

	app.Use(s.requestLogger)
	app.Get("/healthz", s.handleHealth)
	app.Post("/api/query", s.handleQuery)
	app.Get("/api/tasks", s.handleTasks)

	return s
}

// requestLogger logs every request with its latency
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Info("Request handled",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)))
	return err
}

// handleHealth reports liveness
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleQuery is the dispatch boundary: one free-text query in, one
// structured response out
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req core.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body, expected {\"query\": \"...\"}",
		})
	}

	resp := s.service.HandleQuery(c.Context(), req)
	return c.JSON(resp)
}

// handleTasks is the task boundary: generated daily and weekly tasks.
// Completion state is owned by the UI, so this endpoint is read-only.
func (s *Server) handleTasks(c *fiber.Ctx) error {
	set, err := s.service.GenerateTaskSet(c.Context())
	if err != nil {
		if core.IsUpstream(err) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "the outreach platform is unreachable, try again shortly",
			})
		}
		s.logger.Error("Failed to generate tasks", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "task generation failed",
		})
	}

	switch c.Query("horizon") {
	case "daily":
		return c.JSON(fiber.Map{"daily": set.Daily})
	case "weekly":
		return c.JSON(fiber.Map{"weekly": set.Weekly})
	default:
		return c.JSON(set)
	}
}

// Start begins serving in the background
func (s *Server) Start() error {
	go func() {
		if err := s.app.Listen(s.addr); err != nil && !errors.Is(err, fiber.ErrServiceUnavailable) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	return s.app.Shutdown()
}
