// Package frame provides screen frame acquisition for the perception pipeline.
//
// A Source supplies timestamped JPEG frames; the Loop runs a cadence timer on
// its own goroutine, keeps the single most recent frame, and hands frames to
// the analysis side through a one-slot mailbox so a slow consumer only ever
// observes the newest capture.
package frame

import (
	"bytes"
	"errors"
	"image/jpeg"
	"time"
)

// Common errors returned by sources and the acquisition loop.
var (
	ErrNoFrame        = errors.New("frame: no frame available")
	ErrNotStarted     = errors.New("frame: source not started")
	ErrAlreadyStarted = errors.New("frame: already started")
)

// Frame is an immutable captured screen image.
// The JPEG buffer must not be mutated after construction.
type Frame struct {
	JPEG      []byte
	Width     int
	Height    int
	Timestamp time.Time
}

// New builds a Frame from a JPEG buffer, reading dimensions from the header.
// The buffer is not copied; callers hand over ownership.
func New(jpegData []byte, ts time.Time) (*Frame, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpegData))
	if err != nil {
		return nil, err
	}
	return &Frame{
		JPEG:      jpegData,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Timestamp: ts,
	}, nil
}

// Source is the interface for frame capture backends.
// Implementations vary by host platform; the pipeline is agnostic to how
// frames are obtained.
type Source interface {
	// Start begins capturing.
	Start() error

	// Stop halts capturing and releases resources.
	Stop() error

	// Frame returns the most recent frame.
	// Returns ErrNoFrame when nothing has been captured yet.
	Frame() (*Frame, error)
}
