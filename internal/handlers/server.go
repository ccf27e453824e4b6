// internal/handlers/server.go
package handlers

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coderforlife/boompa-hearts/internal/hearts"
)

// Server owns the game registry and the live WebSocket connections. It
// implements the engine's addressable-sink contract: send to one connection,
// or send to every connection in a game's room. Events are marshaled and
// queued synchronously in invocation order and drained by one writer
// goroutine per connection, so per-recipient ordering follows the order the
// corresponding game actions ran.
type Server struct {
	Logger   *logrus.Logger
	Registry *hearts.Registry
	Words    []string

	mu    sync.Mutex
	conns map[uuid.UUID]*client
	rooms map[string]map[uuid.UUID]*client
}

// NewServer builds a Server around the given registry and word list.
func NewServer(logger *logrus.Logger, registry *hearts.Registry, words []string) *Server {
	return &Server{
		Logger:   logger,
		Registry: registry,
		Words:    words,
		conns:    make(map[uuid.UUID]*client),
		rooms:    make(map[string]map[uuid.UUID]*client),
	}
}

// outboundQueue is the per-connection buffer between game logic and the
// socket writer. Enqueueing never blocks game logic; a consumer that falls
// this far behind loses events and recovers via refresh.
const outboundQueue = 256

// client is one live WebSocket connection.
type client struct {
	id     uuid.UUID
	userID uuid.UUID
	out    chan []byte
	game   *hearts.Game
}

func (s *Server) register(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[cl.id] = cl
}

// unregister drops the connection from the conn table and every room and
// closes its outbound queue. Safe against concurrent enqueues: both happen
// under s.mu.
func (s *Server) unregister(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[cl.id]; !ok {
		return
	}
	delete(s.conns, cl.id)
	for name, room := range s.rooms {
		if _, ok := room[cl.id]; ok {
			delete(room, cl.id)
			if len(room) == 0 {
				delete(s.rooms, name)
			}
		}
	}
	close(cl.out)
}

func (s *Server) joinRoom(name string, cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[name]
	if !ok {
		room = make(map[uuid.UUID]*client)
		s.rooms[name] = room
	}
	room[cl.id] = cl
}

func (s *Server) leaveRoom(name string, cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[name]; ok {
		delete(room, cl.id)
		if len(room) == 0 {
			delete(s.rooms, name)
		}
	}
}

func (s *Server) dropRoom(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
}

// enqueue pushes marshaled bytes onto the client's outbound queue without
// blocking. Caller holds s.mu.
func (s *Server) enqueue(cl *client, data []byte) {
	select {
	case cl.out <- data:
	default:
		s.Logger.WithField("conn", cl.id).Warn("outbound queue full, dropping event")
	}
}

// broadcastFn returns the engine BroadcastFn for a game: deliver the event to
// every connection currently in the game's room.
func (s *Server) broadcastFn(gameName string) func(hearts.GameEvent) {
	return func(ev hearts.GameEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.Errorf("failed to marshal %s event for game %s: %v", ev.Type, gameName, err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, cl := range s.rooms[gameName] {
			s.enqueue(cl, data)
		}
	}
}

// sendFn is the engine SendFn: deliver the event to a single connection.
func (s *Server) sendFn(connID uuid.UUID, ev hearts.GameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.Logger.Errorf("failed to marshal %s event for conn %s: %v", ev.Type, connID, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cl, ok := s.conns[connID]; ok {
		s.enqueue(cl, data)
	}
}

// reply sends a handler-level message (join result, snapshot, error) straight
// to one client, through the same ordered queue the game events use.
func (s *Server) reply(cl *client, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		s.Logger.Errorf("failed to marshal reply for conn %s: %v", cl.id, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[cl.id]; ok {
		s.enqueue(cl, data)
	}
}
