package speech

import (
	"sync"
)

// MockVoice implements Voice for testing. Spoken texts and stop calls are
// recorded; SpeakFunc customizes behavior when set.
type MockVoice struct {
	// SpeakFunc is called when Speak is invoked. If nil, Speak records
	// the text and returns nil.
	SpeakFunc func(text string) error

	mu     sync.Mutex
	spoken []string
	stops  int
}

// NewMockVoice creates an empty mock.
func NewMockVoice() *MockVoice {
	return &MockVoice{}
}

// Speak records the text.
func (m *MockVoice) Speak(text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	if m.SpeakFunc != nil {
		return m.SpeakFunc(text)
	}
	return nil
}

// Stop records the interruption.
func (m *MockVoice) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

// Spoken returns all spoken texts in order.
func (m *MockVoice) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Stops returns how many times Stop was called.
func (m *MockVoice) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Verify MockVoice implements Voice at compile time.
var _ Voice = (*MockVoice)(nil)
