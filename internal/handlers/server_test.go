// internal/handlers/server_test.go
package handlers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderforlife/boompa-hearts/internal/hearts"
)

func newTestClient() *client {
	return &client{
		id:     uuid.New(),
		userID: uuid.New(),
		out:    make(chan []byte, outboundQueue),
	}
}

// drain reads everything currently buffered on the client's queue.
func drain(cl *client) []string {
	var out []string
	for {
		select {
		case data := <-cl.out:
			out = append(out, string(data))
		default:
			return out
		}
	}
}

func TestBroadcastReachesRoomOnly(t *testing.T) {
	s := newTestServer(t)
	inRoom, outside := newTestClient(), newTestClient()
	s.register(inRoom)
	s.register(outside)
	s.joinRoom("maple-otter-comet", inRoom)

	s.broadcastFn("maple-otter-comet")(hearts.GameEvent{Type: hearts.EventJoined, Name: "Ann"})

	got := drain(inRoom)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `"joined"`)
	assert.Contains(t, got[0], `"Ann"`)
	assert.Empty(t, drain(outside))
}

func TestSendFnTargetsOneConnection(t *testing.T) {
	s := newTestServer(t)
	a, b := newTestClient(), newTestClient()
	s.register(a)
	s.register(b)

	s.sendFn(a.id, hearts.GameEvent{Type: hearts.EventPause})
	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))

	// unknown connection ids are dropped silently
	s.sendFn(uuid.New(), hearts.GameEvent{Type: hearts.EventPause})
}

func TestDeliveryPreservesOrder(t *testing.T) {
	s := newTestServer(t)
	cl := newTestClient()
	s.register(cl)
	s.joinRoom("maple-otter-comet", cl)
	send := s.broadcastFn("maple-otter-comet")

	for i := 0; i < 50; i++ {
		send(hearts.GameEvent{Type: hearts.EventRenamed, Name: fmt.Sprintf("n%d", i)})
	}

	got := drain(cl)
	require.Len(t, got, 50)
	for i, data := range got {
		assert.Contains(t, data, fmt.Sprintf(`"n%d"`, i))
	}
}

func TestUnregisterClosesQueueAndLeavesRooms(t *testing.T) {
	s := newTestServer(t)
	cl := newTestClient()
	s.register(cl)
	s.joinRoom("maple-otter-comet", cl)

	s.unregister(cl)

	_, open := <-cl.out
	assert.False(t, open, "the outbound queue must be closed")

	// further deliveries must not panic on the closed channel
	s.broadcastFn("maple-otter-comet")(hearts.GameEvent{Type: hearts.EventPause})
	s.sendFn(cl.id, hearts.GameEvent{Type: hearts.EventPause})

	// unregistering twice is harmless
	s.unregister(cl)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	s := newTestServer(t)
	cl := &client{id: uuid.New(), out: make(chan []byte, 1)}
	s.register(cl)

	s.sendFn(cl.id, hearts.GameEvent{Type: hearts.EventPause})
	s.sendFn(cl.id, hearts.GameEvent{Type: hearts.EventPause})

	assert.Len(t, drain(cl), 1, "an overflowing queue drops instead of blocking")
}
