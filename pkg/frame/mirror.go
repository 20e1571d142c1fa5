package frame

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/callout-gg/callout/internal/log"
)

// Mirror is a Source backed by a screen-mirror websocket endpoint that pushes
// JPEG frames as binary messages. The host-side mirror server (scrcpy bridge,
// minicap relay, desktop grabber) is outside this module; anything that speaks
// "binary message per frame" works.
type Mirror struct {
	url string

	mu     sync.RWMutex
	ws     *websocket.Conn
	latest *Frame
	closed bool

	done chan struct{}
}

// NewMirror creates a mirror source for the given websocket URL,
// e.g. ws://localhost:1717/frames.
func NewMirror(url string) *Mirror {
	return &Mirror{url: url}
}

// Start dials the mirror endpoint and begins the read loop.
func (m *Mirror) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ws != nil {
		return ErrAlreadyStarted
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	ws, _, err := dialer.Dial(m.url, nil)
	if err != nil {
		return fmt.Errorf("mirror connect failed: %w", err)
	}

	m.ws = ws
	m.closed = false
	m.done = make(chan struct{})
	go m.readLoop(ws, m.done)

	log.Info("mirror source connected", "url", m.url)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (m *Mirror) Stop() error {
	m.mu.Lock()
	ws := m.ws
	done := m.done
	m.closed = true
	m.ws = nil
	m.mu.Unlock()

	if ws == nil {
		return nil
	}
	err := ws.Close()
	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
	return err
}

// Frame returns the most recent frame received from the mirror.
func (m *Mirror) Frame() (*Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ws == nil && m.latest == nil {
		return nil, ErrNotStarted
	}
	if m.latest == nil {
		return nil, ErrNoFrame
	}
	return m.latest, nil
}

func (m *Mirror) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			m.mu.RLock()
			closed := m.closed
			m.mu.RUnlock()
			if !closed {
				log.Warn("mirror read error", "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			// Text messages are mirror metadata; only pixels matter here.
			continue
		}

		f, err := New(data, time.Now())
		if err != nil {
			log.Debug("mirror sent undecodable frame", "error", err)
			continue
		}

		m.mu.Lock()
		m.latest = f
		m.mu.Unlock()
	}
}

// Verify Mirror implements Source at compile time.
var _ Source = (*Mirror)(nil)
