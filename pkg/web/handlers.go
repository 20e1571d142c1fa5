package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/callout-gg/callout/pkg/hub"
)

// UtteranceRequest is the body for POST /api/utterance.
type UtteranceRequest struct {
	Text string `json:"text"`
}

// handleState returns the current smoothed view, or 204 before the first
// frame lands.
func (s *Server) handleState(c *fiber.Ctx) error {
	if s.source == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "state source not configured",
		})
	}
	sm := s.source.Smoothed()
	if sm == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(sm)
}

// handleHealth reports liveness plus a few counters.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "ok",
		"uptime_sec": int(time.Since(s.started).Seconds()),
		"ws_clients": s.stateHub.ClientCount(),
	})
}

// handleUtterance injects a typed command into the assistant.
func (s *Server) handleUtterance(c *fiber.Ctx) error {
	if s.sink == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "utterance sink not configured",
		})
	}

	var req UtteranceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	s.sink.HandleUtterance(text)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": text})
}

// handleStateWS streams state snapshots. The current view is sent on
// connect so clients render immediately.
func (s *Server) handleStateWS(c *websocket.Conn) {
	if s.source != nil {
		if sm := s.source.Smoothed(); sm != nil {
			c.WriteJSON(sm)
		}
	}
	if client := hub.NewClient(s.stateHub, c); client != nil {
		client.Run()
	}
}
