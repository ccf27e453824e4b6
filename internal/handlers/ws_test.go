// internal/handlers/ws_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderforlife/boompa-hearts/internal/hearts"
)

// lastReply decodes the newest message on the client's queue into a generic map.
func lastReply(t *testing.T, cl *client) map[string]interface{} {
	t.Helper()
	msgs := drain(cl)
	require.NotEmpty(t, msgs, "expected a reply")
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(msgs[len(msgs)-1]), &decoded))
	return decoded
}

// joinGame registers a fresh client and routes a join for the named game.
func joinGame(t *testing.T, s *Server, game, name string) *client {
	t.Helper()
	cl := newTestClient()
	s.register(cl)
	s.route(cl, clientMessage{Type: "join", Game: game, Name: name})
	return cl
}

func TestRouteJoinFlow(t *testing.T) {
	s := newTestServer(t)

	var clients [4]*client
	for i := 0; i < 4; i++ {
		clients[i] = joinGame(t, s, "maple-otter-comet", fmt.Sprintf("P%d", i))
	}

	// the first joiner saw its own joined broadcast, then its joined reply,
	// the three later join broadcasts, and the select_partner prompt
	msgs := drain(clients[0])
	require.Len(t, msgs, 6)
	assert.Contains(t, msgs[0], `"joined"`)
	assert.Contains(t, msgs[0], `"P0"`)
	var joined joinedMessage
	require.NoError(t, json.Unmarshal([]byte(msgs[1]), &joined))
	assert.Equal(t, "joined", joined.Type)
	assert.Equal(t, 0, joined.Seat)
	assert.Empty(t, joined.Names)
	assert.Contains(t, msgs[len(msgs)-1], `"select_partner"`)

	// the fourth seat saw its own join and was paused while seat 0 picks
	seat3 := drain(clients[3])
	require.Len(t, seat3, 3)
	assert.Contains(t, seat3[0], `"P3"`)
	assert.Contains(t, seat3[1], `"pause"`)
	var last joinedMessage
	require.NoError(t, json.Unmarshal([]byte(seat3[2]), &last))
	assert.Equal(t, 3, last.Seat)
	assert.Equal(t, []string{"P0", "P1", "P2"}, last.Names)

	g, ok := s.Registry.Get("maple-otter-comet")
	require.True(t, ok)
	assert.Equal(t, hearts.StateWaiting, g.State())

	// a fifth player bounces and is backed out of the room
	fifth := joinGame(t, s, "maple-otter-comet", "P4")
	assert.Equal(t, "full", lastReply(t, fifth)["type"])
	s.mu.Lock()
	_, inRoom := s.rooms["maple-otter-comet"][fifth.id]
	s.mu.Unlock()
	assert.False(t, inRoom, "a bounced joiner must not stay in the room")

	// joining twice from the same connection is an error
	s.route(clients[0], clientMessage{Type: "join", Game: "other-game-name"})
	assert.Equal(t, "error", lastReply(t, clients[0])["type"])
}

func TestRouteJoinValidation(t *testing.T) {
	s := newTestServer(t)
	cl := newTestClient()
	s.register(cl)

	s.route(cl, clientMessage{Type: "join"})
	assert.Equal(t, "error", lastReply(t, cl)["type"])
	assert.Equal(t, 0, s.Registry.Len())
}

func TestRouteGameActions(t *testing.T) {
	s := newTestServer(t)
	var clients [4]*client
	for i := 0; i < 4; i++ {
		clients[i] = joinGame(t, s, "maple-otter-comet", fmt.Sprintf("P%d", i))
	}
	s.route(clients[0], clientMessage{Type: "select_partner", Partner: 2})

	g, ok := s.Registry.Get("maple-otter-comet")
	require.True(t, ok)
	require.Equal(t, hearts.StateTrading, g.State())

	// an unparsable card code is rejected before it reaches the game
	s.route(clients[0], clientMessage{Type: "trade", Cards: []string{"c2", "zz", "d4"}})
	reply := lastReply(t, clients[0])
	assert.Equal(t, "trade_result", reply["type"])
	assert.Equal(t, "invalid", reply["result"])

	s.route(clients[0], clientMessage{Type: "play_card", Card: "not-a-card"})
	reply = lastReply(t, clients[0])
	assert.Equal(t, "play_result", reply["type"])
	assert.Equal(t, "invalid", reply["result"])

	// refresh returns the trading snapshot
	s.route(clients[1], clientMessage{Type: "refresh"})
	reply = lastReply(t, clients[1])
	assert.Equal(t, "state", reply["type"])
	assert.Equal(t, "trading", reply["state"])
}

func TestRouteActionsOutsideGame(t *testing.T) {
	s := newTestServer(t)
	cl := newTestClient()
	s.register(cl)

	s.route(cl, clientMessage{Type: "refresh"})
	assert.Equal(t, "error", lastReply(t, cl)["type"])

	s.route(cl, clientMessage{Type: "trade", Cards: []string{"c2", "c3", "c4"}})
	assert.Equal(t, "invalid", lastReply(t, cl)["result"])

	s.route(cl, clientMessage{Type: "play_card", Card: "c2"})
	assert.Equal(t, "invalid", lastReply(t, cl)["result"])

	// rename and select_partner are silently ignored without a game
	s.route(cl, clientMessage{Type: "rename", Name: "Nobody"})
	s.route(cl, clientMessage{Type: "select_partner", Partner: 2})
	assert.Empty(t, drain(cl))
}

func TestRoutePingAndUnknown(t *testing.T) {
	s := newTestServer(t)
	cl := newTestClient()
	s.register(cl)

	s.route(cl, clientMessage{Type: "ping"})
	assert.Equal(t, "pong", lastReply(t, cl)["type"])

	s.route(cl, clientMessage{Type: "bogus"})
	reply := lastReply(t, cl)
	assert.Equal(t, "error", reply["type"])
	assert.Contains(t, reply["message"], "bogus")
}

func TestHandleLeaveTearsDownEmptyGame(t *testing.T) {
	s := newTestServer(t)
	a := joinGame(t, s, "short-lived-game", "Ann")
	b := joinGame(t, s, "short-lived-game", "Ben")
	require.Equal(t, 1, s.Registry.Len())

	s.handleLeave(a)
	s.unregister(a)
	assert.Equal(t, 1, s.Registry.Len(), "the game survives while a player remains")

	s.handleLeave(b)
	s.unregister(b)
	assert.Equal(t, 0, s.Registry.Len())
	assert.Empty(t, s.rooms)
}

func TestRejoinGetsStateSnapshot(t *testing.T) {
	s := newTestServer(t)
	var clients [4]*client
	for i := 0; i < 4; i++ {
		clients[i] = joinGame(t, s, "maple-otter-comet", fmt.Sprintf("P%d", i))
	}
	s.route(clients[0], clientMessage{Type: "select_partner", Partner: 2})

	// seat 1 drops mid-game and returns with the same durable identity
	s.handleLeave(clients[1])
	s.unregister(clients[1])
	require.Equal(t, 1, s.Registry.Len())

	back := newTestClient()
	back.userID = clients[1].userID
	s.register(back)
	s.route(back, clientMessage{Type: "join", Game: "maple-otter-comet", Name: "P1"})

	// the returning player sees its own rejoined broadcast, then the snapshot
	msgs := drain(back)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], `"rejoined"`)

	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(msgs[1]), &reply))
	assert.Equal(t, "state", reply["type"])
	assert.Equal(t, true, reply["rejoined"])
	assert.Equal(t, float64(1), reply["seat"])
	require.NotNil(t, back.game)
}
