package frame

import (
	"sync"
	"time"
)

// Mock implements Source for testing. All methods can be customized via
// function fields; the zero value serves a single blank frame forever.
type Mock struct {
	// StartFunc is called when Start is invoked. If nil, returns nil.
	StartFunc func() error

	// StopFunc is called when Stop is invoked. If nil, returns nil.
	StopFunc func() error

	// FrameFunc is called when Frame is invoked.
	// If nil, returns the frame set with SetFrame (or ErrNoFrame).
	FrameFunc func() (*Frame, error)

	mu      sync.Mutex
	frame   *Frame
	started bool
	calls   []string
}

// NewMock creates a mock source with no frame loaded.
func NewMock() *Mock {
	return &Mock{}
}

// SetFrame sets the frame returned by Frame when FrameFunc is nil.
func (m *Mock) SetFrame(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = f
}

// SetJPEG builds a frame from a JPEG buffer and sets it.
func (m *Mock) SetJPEG(jpegData []byte) error {
	f, err := New(jpegData, time.Now())
	if err != nil {
		return err
	}
	m.SetFrame(f)
	return nil
}

// Start records the call and invokes StartFunc.
func (m *Mock) Start() error {
	m.record("Start")
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

// Stop records the call and invokes StopFunc.
func (m *Mock) Stop() error {
	m.record("Stop")
	m.mu.Lock()
	m.started = false
	m.mu.Unlock()
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

// Frame records the call and returns the configured frame.
func (m *Mock) Frame() (*Frame, error) {
	m.record("Frame")
	if m.FrameFunc != nil {
		return m.FrameFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frame == nil {
		return nil, ErrNoFrame
	}
	return m.frame, nil
}

// Started reports whether the mock has been started and not stopped.
func (m *Mock) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Calls returns the recorded method names in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
}

// Verify Mock implements Source at compile time.
var _ Source = (*Mock)(nil)
