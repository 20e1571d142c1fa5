// Package pipeline ties the capture loop, vision engine, state history,
// assistant, and speech queue into one running session. A single goroutine
// consumes frames, injected utterances, and the auto-alert ticker, so
// analysis and dispatch never race each other.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/callout-gg/callout/internal/config"
	"github.com/callout-gg/callout/internal/log"
	"github.com/callout-gg/callout/pkg/assistant"
	"github.com/callout-gg/callout/pkg/frame"
	"github.com/callout-gg/callout/pkg/speech"
	"github.com/callout-gg/callout/pkg/stats"
	"github.com/callout-gg/callout/pkg/vision"
)

const welcomeLine = "Callout online. Watching your game."

// utteranceBuffer bounds injected commands waiting for the session loop.
const utteranceBuffer = 8

// StatePublisher receives every smoothed snapshot, e.g. the dashboard's
// websocket hub. Optional.
type StatePublisher interface {
	PublishState(v any)
}

// Config assembles a session from its collaborators.
type Config struct {
	// Source produces frames. Required.
	Source frame.Source

	// FPS is the capture cadence. Zero means config.DefaultFPS.
	FPS int

	// Profile maps screen regions. Nil means vision.DefaultProfile().
	Profile *vision.Profile

	// Templates backs template correlation. May be nil or empty.
	Templates *vision.TemplateSet

	// Recognizer reads ammo, kills and timer text. Nil disables those fields.
	Recognizer vision.Recognizer

	// Voice speaks queued responses. Required.
	Voice speech.Voice

	// WakeWord overrides the default command prefix.
	WakeWord string

	// AlertInterval is the auto-alert sweep cadence. Zero means the default 2s.
	AlertInterval time.Duration

	// AlertCooldown suppresses repeats of the same alert kind.
	// Negative disables suppression entirely; zero means the default.
	AlertCooldown time.Duration

	// Publisher gets each fresh snapshot pushed to it. Optional.
	Publisher StatePublisher

	// Vision tunables. Zero value means vision.DefaultConfig().
	Vision vision.Config
}

// Session is one running watch-and-callout instance.
type Session struct {
	ID string

	loop       *frame.Loop
	engine     *vision.Engine
	aggregator *stats.Aggregator
	dispatcher *assistant.Dispatcher
	queue      *speech.Queue

	alertInterval time.Duration
	publisher     StatePublisher
	utterances    chan string

	quit   chan struct{}
	done   chan struct{}
	logger *slog.Logger
}

// NewSession wires a session. It does not start anything.
func NewSession(cfg Config) *Session {
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	profile := cfg.Profile
	if profile == nil {
		profile = vision.DefaultProfile()
	}
	vcfg := cfg.Vision
	if vcfg == (vision.Config{}) {
		vcfg = vision.DefaultConfig()
	}
	interval := cfg.AlertInterval
	if interval <= 0 {
		interval = time.Duration(config.DefaultAlertInterval * float64(time.Second))
	}

	s := &Session{
		ID:            uuid.NewString(),
		loop:          frame.NewLoop(cfg.Source, fps),
		engine:        vision.NewEngine(profile, cfg.Templates, cfg.Recognizer, vcfg),
		aggregator:    stats.New(stats.DefaultCapacity),
		alertInterval: interval,
		publisher:     cfg.Publisher,
		utterances:    make(chan string, utteranceBuffer),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	s.logger = log.Component("pipeline").With("session", s.ID)

	s.engine.SetRecorder(s.aggregator)

	s.queue = speech.NewQueue(cfg.Voice)

	dispatchOpts := []assistant.Option{}
	if cfg.WakeWord != "" {
		dispatchOpts = append(dispatchOpts, assistant.WithWakeWord(cfg.WakeWord))
	}
	switch {
	case cfg.AlertCooldown < 0:
		dispatchOpts = append(dispatchOpts, assistant.WithAlertCooldown(0))
	case cfg.AlertCooldown > 0:
		dispatchOpts = append(dispatchOpts, assistant.WithAlertCooldown(cfg.AlertCooldown))
	}
	s.dispatcher = assistant.NewDispatcher(s.aggregator, s.queue, dispatchOpts...)

	return s
}

// SetPublisher attaches a state publisher. Call before Start.
func (s *Session) SetPublisher(p StatePublisher) {
	s.publisher = p
}

// Start brings up the speech queue and capture loop, announces the session,
// and launches the main loop. ctx cancellation stops the session.
func (s *Session) Start(ctx context.Context) error {
	if err := s.queue.Start(); err != nil {
		return err
	}
	if err := s.loop.Start(); err != nil {
		s.queue.Stop()
		return err
	}

	s.logger.Info("session started")
	s.queue.Enqueue(welcomeLine, speech.PriorityNormal)

	go s.run(ctx)
	return nil
}

// Stop shuts the session down. Queued speech is abandoned.
func (s *Session) Stop() {
	close(s.quit)
	<-s.done

	stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.loop.Stop(stopCtx); err != nil {
		s.logger.Warn("capture loop stop", "error", err)
	}
	s.queue.Stop()
	s.logger.Info("session stopped")
}

// HandleUtterance queues recognized or injected speech for the session loop.
// Commands arriving faster than the loop drains them are dropped.
func (s *Session) HandleUtterance(text string) {
	select {
	case s.utterances <- text:
	default:
		s.logger.Warn("utterance buffer full, dropping", "text", text)
	}
}

// Smoothed exposes the aggregated state view, nil before the first frame.
func (s *Session) Smoothed() *stats.Smoothed {
	return s.aggregator.Smoothed()
}

// run is the session's single cooperative loop.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.alertInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-s.loop.Frames():
			s.analyze(f)

		case text := <-s.utterances:
			s.dispatcher.HandleUtterance(text)

		case <-ticker.C:
			s.dispatcher.CheckAutoAlerts()

		case <-ctx.Done():
			return
		case <-s.quit:
			return
		}
	}
}

func (s *Session) analyze(f *frame.Frame) {
	s.engine.Analyze(f)
	if s.publisher == nil {
		return
	}
	if sm := s.aggregator.Smoothed(); sm != nil {
		s.publisher.PublishState(sm)
	}
}
