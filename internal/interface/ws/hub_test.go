package ws

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newHubClient(hub *Hub) *Client {
	return newClient(hub, nil, nil, slog.Default())
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case frame := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	default:
		t.Fatal("expected a frame in the send buffer")
		return Envelope{}
	}
}

func TestBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub(slog.Default())
	roomID := uuid.New()

	a := newHubClient(hub)
	b := newHubClient(hub)
	outsider := newHubClient(hub)
	hub.join(roomID, a)
	hub.join(roomID, b)
	hub.join(uuid.New(), outsider)

	hub.Broadcast(roomID, "newMessage", map[string]string{"content": "hi"})

	for _, c := range []*Client{a, b} {
		env := recvEnvelope(t, c)
		require.Equal(t, "newMessage", env.Event)
	}
	require.Empty(t, outsider.send)
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	hub := NewHub(slog.Default())
	roomID := uuid.New()

	typist := newHubClient(hub)
	other := newHubClient(hub)
	hub.join(roomID, typist)
	hub.join(roomID, other)

	hub.BroadcastExcept(roomID, typist, "typing", typingPayload{RoomID: roomID, Sender: 1, Typing: true})

	env := recvEnvelope(t, other)
	require.Equal(t, "typing", env.Event)
	require.Empty(t, typist.send)
}

func TestLeaveAllRemovesMembership(t *testing.T) {
	hub := NewHub(slog.Default())
	roomA := uuid.New()
	roomB := uuid.New()

	c := newHubClient(hub)
	hub.join(roomA, c)
	hub.join(roomB, c)
	require.Equal(t, 1, hub.RoomSize(roomA))

	hub.leaveAll(c)
	require.Zero(t, hub.RoomSize(roomA))
	require.Zero(t, hub.RoomSize(roomB))

	hub.Broadcast(roomA, "newMessage", "x")
	require.Empty(t, c.send)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(slog.Default())
	roomID := uuid.New()

	c := newHubClient(hub)
	hub.join(roomID, c)
	for i := 0; i < sendBufferSize; i++ {
		c.send <- []byte("{}")
	}

	hub.Broadcast(roomID, "newMessage", "overflow")

	select {
	case <-c.done:
	default:
		t.Fatal("expected slow client to be closed")
	}
}
