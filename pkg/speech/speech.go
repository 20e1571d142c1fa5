// Package speech orders and paces spoken alerts.
//
// A Queue holds pending utterances in priority order and drives an external
// voice-output collaborator one utterance at a time. Emergency items preempt
// whatever is currently being spoken.
package speech

import "errors"

// Common errors.
var (
	ErrAlreadyStarted = errors.New("speech: queue already started")
	ErrNotStarted     = errors.New("speech: queue not started")
)

// Priority orders queued utterances. Lower value speaks first.
type Priority int

const (
	PriorityEmergency Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityEmergency:
		return "emergency"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Voice is the external voice-output collaborator. Speak is assumed to be
// synchronous enough to pace draining; Stop interrupts in-flight playback.
type Voice interface {
	Speak(text string) error
	Stop()
}
