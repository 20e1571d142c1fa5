package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/callout-gg/callout/internal/log"
)

const (
	// retryBackoff is how long the loop waits after a failed capture.
	retryBackoff = 100 * time.Millisecond

	// stopTimeout bounds how long Stop waits for the loop goroutine.
	stopTimeout = 2 * time.Second
)

// Subscriber receives new frames. The frame is shared and immutable;
// the reference is valid beyond the call, the pixels must not be changed.
type Subscriber func(*Frame)

// Loop pulls frames from a Source at a fixed cadence on its own goroutine.
//
// The newest frame is always available via Latest; consumers that want every
// fresh frame (but never a backlog) read the one-slot mailbox from Frames.
type Loop struct {
	source   Source
	interval time.Duration

	mu      sync.Mutex
	latest  *Frame
	subs    map[int]Subscriber
	nextSub int
	running bool

	mailbox chan *Frame
	quit    chan struct{}
	done    chan struct{}

	logger *slog.Logger
}

// NewLoop creates an acquisition loop targeting the given frame rate.
func NewLoop(source Source, fps int) *Loop {
	if fps <= 0 {
		fps = 15
	}
	return &Loop{
		source:   source,
		interval: time.Second / time.Duration(fps),
		subs:     make(map[int]Subscriber),
		mailbox:  make(chan *Frame, 1),
		logger:   log.Component("frame.loop"),
	}
}

// Start begins the cadence loop. The source is started first; a source that
// cannot start is the only fatal condition.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.running = true
	l.quit = make(chan struct{})
	l.done = make(chan struct{})
	l.mu.Unlock()

	if err := l.source.Start(); err != nil {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		return err
	}

	go l.run()
	l.logger.Info("acquisition started", "interval", l.interval)
	return nil
}

// Stop halts the loop and joins the background goroutine within a bounded
// timeout, force-stopping the source either way.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	close(l.quit)
	done := l.done
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	select {
	case <-done:
	case <-waitCtx.Done():
		l.logger.Warn("loop goroutine did not exit in time")
	}

	err := l.source.Stop()
	l.logger.Info("acquisition stopped")
	return err
}

// Latest returns the most recent frame, or nil if none has been captured.
func (l *Loop) Latest() *Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// Frames returns the one-slot mailbox. Only the newest unconsumed frame is
// ever pending; intermediate frames are dropped.
func (l *Loop) Frames() <-chan *Frame {
	return l.mailbox
}

// Subscribe registers a frame listener and returns an id for Unsubscribe.
// Callbacks are dispatched fire-and-forget so they never stall acquisition.
func (l *Loop) Subscribe(fn Subscriber) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	return id
}

// Unsubscribe removes a previously registered listener.
func (l *Loop) Unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, id)
}

func (l *Loop) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case <-ticker.C:
			f, err := l.source.Frame()
			if err != nil {
				// Transient capture failure: keep the previous latest
				// frame and retry after a short backoff.
				l.logger.Debug("capture failed", "error", err)
				select {
				case <-l.quit:
					return
				case <-time.After(retryBackoff):
				}
				continue
			}
			l.publish(f)
		}
	}
}

// publish stores the new latest frame, refreshes the mailbox slot, and fans
// out to subscribers without blocking the cadence.
func (l *Loop) publish(f *Frame) {
	l.mu.Lock()
	l.latest = f
	subs := make([]Subscriber, 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	// Newest-wins mailbox: drop the stale pending frame if the consumer
	// hasn't picked it up yet.
	select {
	case l.mailbox <- f:
	default:
		select {
		case <-l.mailbox:
		default:
		}
		select {
		case l.mailbox <- f:
		default:
		}
	}

	for _, fn := range subs {
		go fn(f)
	}
}
