// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coderforlife/boompa-hearts/internal/hearts"
	"github.com/coderforlife/boompa-hearts/internal/middleware"
)

// clientMessage is the envelope for all inbound WebSocket messages.
type clientMessage struct {
	Type    string   `json:"type"`
	Game    string   `json:"game,omitempty"`    // join
	Name    string   `json:"name,omitempty"`    // join, rename
	Partner int      `json:"partner,omitempty"` // select_partner
	Cards   []string `json:"cards,omitempty"`   // trade
	Card    string   `json:"card,omitempty"`    // play_card
}

// joinedMessage answers a successful first join.
type joinedMessage struct {
	Type  string   `json:"type"`
	Seat  int      `json:"seat"`
	Names []string `json:"names"` // players seated before the joiner
}

// stateMessage wraps a snapshot for refresh and rejoin replies.
type stateMessage struct {
	Type string `json:"type"`
	*hearts.Snapshot
}

// resultMessage answers trade and play_card attempts.
type resultMessage struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// WSHandler upgrades the HTTP connection to WebSocket and runs the message
// loop for one player connection. Identity comes from the auth_token cookie;
// a fresh guest identity is minted when none is present.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureGuest(w, r)
		if err != nil {
			logger.Warnf("guest identity failed: %v", err)
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"hearts"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		cl := &client{
			id:     uuid.New(),
			userID: userID,
			out:    make(chan []byte, outboundQueue),
		}
		s.register(cl)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go writeLoop(ctx, conn, cl.out)

		readErr := s.readMessages(ctx, conn, cl)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)

		s.handleLeave(cl)
		s.unregister(cl)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

// writeLoop drains the client's outbound queue into the socket. It exits
// when the queue closes or a write fails; the read loop notices the broken
// connection and triggers cleanup.
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) {
	for data := range out {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			return
		}
	}
}

// readMessages runs the blocking inbound loop, routing each message to the
// owning game. Every action runs to completion under the game's lock before
// the next message is read.
func (s *Server) readMessages(ctx context.Context, conn *websocket.Conn, cl *client) error {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(cl, errorMessage{Type: "error", Message: "invalid JSON"})
			continue
		}
		s.route(cl, msg)
	}
}

// route dispatches one inbound message.
func (s *Server) route(cl *client, msg clientMessage) {
	switch msg.Type {
	case "join":
		s.handleJoin(cl, msg)

	case "rename":
		if cl.game != nil {
			cl.game.Rename(cl.id, msg.Name)
		}

	case "select_partner":
		if cl.game != nil {
			cl.game.SelectPartner(cl.id, msg.Partner)
		}

	case "refresh":
		if cl.game == nil {
			s.reply(cl, errorMessage{Type: "error", Message: "not in a game"})
			return
		}
		if snap := cl.game.Refresh(cl.id); snap != nil {
			s.reply(cl, stateMessage{Type: "state", Snapshot: snap})
		}

	case "trade":
		if cl.game == nil {
			s.reply(cl, resultMessage{Type: "trade_result", Result: string(hearts.OutcomeInvalid)})
			return
		}
		cards, err := hearts.ParseCards(msg.Cards)
		if err != nil {
			s.reply(cl, resultMessage{Type: "trade_result", Result: string(hearts.OutcomeInvalid)})
			return
		}
		outcome := cl.game.Trade(cl.id, cards)
		s.reply(cl, resultMessage{Type: "trade_result", Result: string(outcome)})

	case "play_card":
		if cl.game == nil {
			s.reply(cl, resultMessage{Type: "play_result", Result: string(hearts.OutcomeInvalid)})
			return
		}
		card, err := hearts.ParseCard(msg.Card)
		if err != nil {
			s.reply(cl, resultMessage{Type: "play_result", Result: string(hearts.OutcomeInvalid)})
			return
		}
		outcome := cl.game.PlayCard(cl.id, card)
		s.reply(cl, resultMessage{Type: "play_result", Result: string(outcome)})

	case "ping":
		s.reply(cl, map[string]string{"type": "pong"})

	default:
		s.reply(cl, errorMessage{Type: "error", Message: "unknown message type: " + msg.Type})
	}
}

// handleJoin seats the connection in the named game, creating the game on
// first sight and wiring its broadcast functions before any player acts.
func (s *Server) handleJoin(cl *client, msg clientMessage) {
	if cl.game != nil {
		s.reply(cl, errorMessage{Type: "error", Message: "already in a game"})
		return
	}
	if msg.Game == "" {
		s.reply(cl, errorMessage{Type: "error", Message: "missing game name"})
		return
	}
	name := msg.Name
	if name == "" {
		name = "Guest"
	}

	g, created := s.Registry.GetOrCreate(msg.Game)
	if created {
		g.BroadcastFn = s.broadcastFn(g.Name)
		g.SendFn = s.sendFn
	}

	// enter the room first so the joiner sees its own joined/rejoined
	// broadcast like everyone else
	s.joinRoom(g.Name, cl)
	res := g.Join(cl.userID, cl.id, name)
	switch res.Status {
	case hearts.JoinFull:
		s.leaveRoom(g.Name, cl)
		s.reply(cl, map[string]string{"type": "full"})

	case hearts.JoinJoined:
		cl.game = g
		s.reply(cl, joinedMessage{Type: "joined", Seat: res.Seat, Names: res.Others})

	case hearts.JoinRejoined:
		cl.game = g
		s.reply(cl, stateMessage{Type: "state", Snapshot: res.Snapshot})
	}
}

// handleLeave tells the owning game the connection went away and tears the
// game down once every seat is disconnected. The removal re-checks emptiness
// under the registry lock: a player who rejoined between the disconnect and
// the removal keeps the game alive.
func (s *Server) handleLeave(cl *client) {
	if cl.game == nil {
		return
	}
	if empty := cl.game.Disconnect(cl.id); empty {
		if s.Registry.RemoveIfEmpty(cl.game.Name) {
			s.Logger.WithField("game", cl.game.Name).Info("game empty, tearing down")
			s.dropRoom(cl.game.Name)
		}
	}
}
