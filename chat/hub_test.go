package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "trp_room1",
	}
	hub.register <- client

	out := outboundPayload{Action: "chat", Content: "hello room"}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	hub.Broadcast("trp_room1", data)

	select {
	case got := <-client.Send:
		require.Equal(t, string(data), string(got))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}

	hub.unregister <- client
	_, open := <-client.Send
	require.False(t, open, "send channel should close on unregister")
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 1), Room: "trp_a"}
	b := &Client{Send: make(chan []byte, 1), Room: "trp_b"}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("trp_a", []byte("only for a"))

	select {
	case got := <-a.Send:
		require.Equal(t, "only for a", string(got))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for room broadcast")
	}

	select {
	case msg := <-b.Send:
		t.Fatalf("room b should stay quiet, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// zero buffer and nobody reading: the first broadcast must evict.
	// The second one blocks until the first is fully processed, so the
	// eviction has happened before this test reads anything.
	slow := &Client{Send: make(chan []byte), Room: "trp_slow"}
	hub.register <- slow
	hub.Broadcast("trp_slow", []byte("x"))
	hub.Broadcast("trp_slow", []byte("y"))

	select {
	case _, open := <-slow.Send:
		require.False(t, open, "slow consumer channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for eviction")
	}
}
