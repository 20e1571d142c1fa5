// Package web serves the callout dashboard: a JSON API over the smoothed
// game state, an utterance injection endpoint, and a websocket stream of
// state snapshots.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/callout-gg/callout/internal/log"
	"github.com/callout-gg/callout/pkg/hub"
	"github.com/callout-gg/callout/pkg/stats"
)

// StateSource exposes the smoothed pipeline view.
type StateSource interface {
	Smoothed() *stats.Smoothed
}

// UtteranceSink accepts injected voice commands, e.g. typed into the
// dashboard instead of spoken.
type UtteranceSink interface {
	HandleUtterance(text string)
}

// Server is the dashboard HTTP and websocket server.
type Server struct {
	app  *fiber.App
	port string

	source StateSource
	sink   UtteranceSink

	stateHub *hub.Hub
	started  time.Time
	logger   *slog.Logger
}

// NewServer wires the dashboard routes. source and sink may be nil; the
// corresponding endpoints then report unavailable.
func NewServer(port string, source StateSource, sink UtteranceSink) *Server {
	s := &Server{
		port:     port,
		source:   source,
		sink:     sink,
		stateHub: hub.New("state"),
		logger:   log.Component("web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Callout Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/health", s.handleHealth)
	api.Post("/utterance", s.handleUtterance)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// Start blocks serving until Shutdown.
func (s *Server) Start() error {
	s.started = time.Now()
	go s.stateHub.Run()
	s.logger.Info("dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine and logs any listen failure.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("dashboard server stopped", "error", err)
		}
	}()
}

// PublishState broadcasts a state snapshot to websocket subscribers.
func (s *Server) PublishState(v any) {
	if err := s.stateHub.BroadcastJSON(v); err != nil {
		s.logger.Warn("state broadcast failed", "error", err)
	}
}

// Shutdown stops the listener and disconnects websocket clients.
func (s *Server) Shutdown() error {
	s.stateHub.Stop()
	return s.app.Shutdown()
}
