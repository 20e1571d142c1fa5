// Package hub fans websocket messages out to a set of connected dashboard
// clients. All client bookkeeping happens on the hub goroutine; callers only
// touch the broadcast channel.
package hub

// MessageType indicates the websocket frame format.
type MessageType int

const (
	// TextMessage is a JSON-encoded payload.
	TextMessage MessageType = iota
	// BinaryMessage is raw bytes, e.g. a JPEG frame.
	BinaryMessage
)

// Message is one payload queued for broadcast.
type Message struct {
	Type MessageType
	Data []byte
}

// Text wraps pre-encoded JSON bytes.
func Text(data []byte) Message {
	return Message{Type: TextMessage, Data: data}
}

// Binary wraps raw bytes.
func Binary(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
