package hub

import (
	"testing"
	"time"
)

func testClient(h *Hub, buffer int) *Client {
	c := &Client{hub: h, send: make(chan Message, buffer)}
	h.register <- c
	return c
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	a := testClient(h, 4)
	b := testClient(h, 4)
	waitForCount(t, h, 2)

	if err := h.BroadcastJSON(map[string]int{"hp": 80}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != TextMessage {
				t.Errorf("message type = %v, want TextMessage", msg.Type)
			}
			if string(msg.Data) != `{"hp":80}` {
				t.Errorf("payload = %s", msg.Data)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	slow := testClient(h, 1)
	waitForCount(t, h, 1)

	// First message fills the buffer, second finds it full.
	h.Broadcast(Binary([]byte{1}))
	h.Broadcast(Binary([]byte{2}))
	waitForCount(t, h, 0)

	// The hub closed the channel after draining was impossible.
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("slow client send channel still open")
	}
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	h := New("test")
	go h.Run()

	c := testClient(h, 4)
	waitForCount(t, h, 1)

	h.Stop()
	waitForCount(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel still open after Stop")
	}
}

func TestHub_NewClientAfterStopReturnsNil(t *testing.T) {
	h := New("test")
	h.Stop()

	done := make(chan *Client, 1)
	go func() { done <- NewClient(h, nil) }()

	select {
	case c := <-done:
		if c != nil {
			t.Error("expected nil client from a stopped hub")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("NewClient hung on a stopped hub")
	}
}
