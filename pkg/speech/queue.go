package speech

import (
	"container/heap"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/callout-gg/callout/internal/log"
)

// defaultPerWord is the heuristic spoken duration per word, used only for
// pacing the drain loop, never for correctness.
const defaultPerWord = 300 * time.Millisecond

// Item is one queued utterance.
type Item struct {
	ID       string
	Text     string
	Priority Priority

	seq uint64 // enqueue order, breaks priority ties FIFO
}

// Option configures a Queue.
type Option func(*Queue)

// WithPerWordPause overrides the per-word pacing estimate.
func WithPerWordPause(d time.Duration) Option {
	return func(q *Queue) { q.perWord = d }
}

// Queue speaks items in ascending priority order, FIFO within a tier.
// At most one item is active at a time.
type Queue struct {
	voice Voice

	mu       sync.Mutex
	items    itemHeap
	seq      uint64
	speaking bool
	started  bool

	kick      chan struct{}
	interrupt chan struct{}
	quit      chan struct{}
	done      chan struct{}

	perWord time.Duration
	logger  *slog.Logger
}

// NewQueue creates a queue driving the given voice output.
func NewQueue(voice Voice, opts ...Option) *Queue {
	q := &Queue{
		voice:     voice,
		kick:      make(chan struct{}, 1),
		interrupt: make(chan struct{}, 1),
		perWord:   defaultPerWord,
		logger:    log.Component("speech.queue"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the drain goroutine.
func (q *Queue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return ErrAlreadyStarted
	}
	q.started = true
	q.quit = make(chan struct{})
	q.done = make(chan struct{})
	go q.drain()
	return nil
}

// Stop halts draining. Queued but unspoken items are abandoned; an in-flight
// utterance is interrupted. Returns ErrNotStarted when the queue is not
// running.
func (q *Queue) Stop() error {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return ErrNotStarted
	}
	q.started = false
	close(q.quit)
	done := q.done
	q.mu.Unlock()

	q.voice.Stop()
	<-done
	return nil
}

// Enqueue adds an utterance. Enqueuing an emergency while another item is
// being spoken immediately signals the active playback to stop.
func (q *Queue) Enqueue(text string, p Priority) {
	q.mu.Lock()
	item := Item{
		ID:       uuid.NewString(),
		Text:     text,
		Priority: p,
		seq:      q.seq,
	}
	q.seq++
	heap.Push(&q.items, item)
	preempt := p == PriorityEmergency && q.speaking
	q.mu.Unlock()

	if preempt {
		q.logger.Info("emergency preemption", "text", text)
		q.voice.Stop()
		select {
		case q.interrupt <- struct{}{}:
		default:
		}
	}

	select {
	case q.kick <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued (not yet spoken) items.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Speaking reports whether an utterance is currently active.
func (q *Queue) Speaking() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.speaking
}

func (q *Queue) drain() {
	defer close(q.done)

	for {
		select {
		case <-q.quit:
			return
		case <-q.kick:
		}

		for {
			item, ok := q.pop()
			if !ok {
				break
			}
			q.speak(item)

			select {
			case <-q.quit:
				return
			default:
			}
		}
	}
}

// speak drives one utterance through the voice output and paces by the
// word-count duration estimate. The pacing wait is cut short on preemption
// or shutdown.
func (q *Queue) speak(item Item) {
	// Drop any interrupt left over from a preemption that raced the end
	// of the previous item's pacing wait, so it cannot cut this one short.
	select {
	case <-q.interrupt:
	default:
	}

	q.mu.Lock()
	q.speaking = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.speaking = false
		q.mu.Unlock()
	}()

	if err := q.voice.Speak(item.Text); err != nil {
		q.logger.Warn("voice output failed", "error", err, "text", item.Text)
		return
	}

	timer := time.NewTimer(EstimateDuration(item.Text, q.perWord))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-q.interrupt:
	case <-q.quit:
	}
}

// pop removes and returns the highest-priority item.
func (q *Queue) pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return Item{}, false
	}
	return heap.Pop(&q.items).(Item), true
}

// EstimateDuration approximates how long text takes to speak.
func EstimateDuration(text string, perWord time.Duration) time.Duration {
	words := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	return time.Duration(words) * perWord
}

// itemHeap is a min-heap on (priority, seq).
type itemHeap []Item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(Item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
