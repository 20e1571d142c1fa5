package vision

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// Character whitelists handed to the text recognizer. HUD counters are
// digits; the match timer additionally uses a colon separator.
const (
	CharsetCounter = "0123456789/"
	CharsetTimer   = "0123456789:"
)

// Recognizer is the external text-recognition collaborator. The engine
// tolerates its absence; dependent fields simply come back empty.
type Recognizer interface {
	// Recognize reads text from a preprocessed (binarized) image,
	// restricted to the given character set.
	Recognize(img gocv.Mat, charset string) (string, error)
}

var digitRun = regexp.MustCompile(`\d+`)

// parseCount extracts the first run of digits from recognizer output.
func parseCount(text string) *int {
	match := digitRun.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}

// parseTimer returns the trimmed recognizer output, empty when nothing
// legible came back.
func parseTimer(text string) string {
	return strings.TrimSpace(text)
}

// MockRecognizer implements Recognizer for testing. Results are keyed by
// charset so one mock can serve counter and timer reads.
type MockRecognizer struct {
	// RecognizeFunc overrides the canned results when set.
	RecognizeFunc func(img gocv.Mat, charset string) (string, error)

	mu      sync.Mutex
	results map[string]string
	calls   int
}

// NewMockRecognizer creates a mock with no canned results.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{results: make(map[string]string)}
}

// SetResult sets the text returned for a charset.
func (m *MockRecognizer) SetResult(charset, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[charset] = text
}

// Recognize returns the canned result for the charset.
func (m *MockRecognizer) Recognize(img gocv.Mat, charset string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(img, charset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[charset], nil
}

// Calls returns how many times Recognize was invoked.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Verify MockRecognizer implements Recognizer at compile time.
var _ Recognizer = (*MockRecognizer)(nil)
