// Package server exposes the answering pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aqua777/go-ragpipe/schema"
)

// Answerer answers a question end to end. *pipeline.Pipeline implements it.
type Answerer interface {
	Answer(ctx context.Context, question string) (schema.AnswerPayload, error)
}

// Info is the static deployment metadata reported by the health endpoint.
type Info struct {
	Environment  string
	ChatModel    string
	StoreBackend string
}

// Server wraps a fiber app around an Answerer.
type Server struct {
	app      *fiber.App
	answerer Answerer
	info     Info
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server with routes registered.
func New(answerer Answerer, info Info, opts ...Option) *Server {
	s := &Server{
		answerer: answerer,
		info:     info,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.app.Get("/healthz", s.handleHealthz)
	s.app.Post("/ask", s.handleAsk)

	return s
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "ok",
		"environment":   s.info.Environment,
		"chat_model":    s.info.ChatModel,
		"store_backend": s.info.StoreBackend,
	})
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	payload, err := s.answerer.Answer(c.UserContext(), req.Question)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
		}
		s.logger.Error("answer failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(payload)
}
