// internal/hearts/game.go
package hearts

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle phase of a game.
type State string

const (
	StateWaiting State = "waiting"
	StateTrading State = "trading"
	StatePlaying State = "playing"
	StateEnded   State = "ended"
)

// ScoreToWin is the cumulative score past which the game ends (unless tied).
const ScoreToWin = 100

// DefaultPaceDelay is how long trick-end and hand-end results are held back
// so clients can visually settle before the next trick or hand begins.
const DefaultPaceDelay = 2 * time.Second

// JoinStatus is the typed outcome of a Join call.
type JoinStatus string

const (
	JoinFull     JoinStatus = "full"
	JoinJoined   JoinStatus = "joined"
	JoinRejoined JoinStatus = "rejoined"
)

// JoinResult carries the outcome of Join. Others is set for JoinJoined and
// Snapshot for JoinRejoined.
type JoinResult struct {
	Status   JoinStatus
	Seat     int
	Others   []string
	Snapshot *Snapshot
}

// Outcome is the typed result of a trade or card-play attempt.
type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomePending Outcome = "pending"
	OutcomePlayed  Outcome = "played"
)

// Game holds the entire state of a single four-player game. All exported
// methods lock the game; every inbound action mutates state to completion
// before the next is processed, so state is atomic per game.
//
// Outbound delivery is injected by the transport layer: BroadcastFn addresses
// every occupant of the game, SendFn addresses a single connection. Both are
// invoked with the game lock held and must not block.
type Game struct {
	Name string

	mu      sync.Mutex
	closed  bool
	state   State
	players []*Player
	handNum int
	score0  int // cumulative, seats {0,2}
	score1  int // cumulative, seats {1,3}

	// current hand
	heartsBroken bool
	tricks0      int
	tricks1      int
	handScore0   int
	handScore1   int

	// current trick
	trickLeader *Player
	trick       []Card
	lastTrick   []Card

	// PaceDelay is the trick-end/hand-end pacing delay. Tests shorten it.
	PaceDelay time.Duration

	BroadcastFn func(ev GameEvent)
	SendFn      func(connID uuid.UUID, ev GameEvent)

	rng         *rand.Rand
	log         *logrus.Entry
	actionIndex int
}

// NewGame builds an empty game in the waiting state.
func NewGame(name string, logger *logrus.Logger) *Game {
	if logger == nil {
		logger = logrus.New()
	}
	return &Game{
		Name:      name,
		state:     StateWaiting,
		PaceDelay: DefaultPaceDelay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       logger.WithField("game", name),
	}
}

// Close marks the game torn down. Pending pacing callbacks become no-ops.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

// CloseIfEmpty closes the game only if no connected player remains. The check
// and the close share the game lock, so a rejoin that landed after the last
// disconnect was reported keeps the game alive.
func (g *Game) CloseIfEmpty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.players {
		if !p.Disconnected {
			return false
		}
	}
	g.closed = true
	return true
}

// State returns the current lifecycle phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// emit sends an event to every occupant of the game. Lock held.
func (g *Game) emit(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// send addresses an event to a single seated player. Lock held.
func (g *Game) send(p *Player, ev GameEvent) {
	if g.SendFn != nil && !p.Disconnected {
		g.SendFn(p.ConnID, ev)
	}
}

func (g *Game) names() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	return names
}

func (g *Game) playerByConn(connID uuid.UUID) *Player {
	for _, p := range g.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (g *Game) playerByUser(userID uuid.UUID) *Player {
	for _, p := range g.players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Join seats a new player, or rebinds a returning one to a new connection.
//
// A user already seated and still connected, a full table, or a game that has
// left the waiting state all yield JoinFull with no mutation. A disconnected
// returning user is rejoined: their connection id is replaced, the room is
// told, and they get a full state snapshot. When the fourth seat fills, seat 0
// is asked to choose a partner and the other three are paused.
func (g *Game) Join(userID, connID uuid.UUID, name string) JoinResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return JoinResult{Status: JoinFull}
	}
	if p := g.playerByUser(userID); p != nil {
		if !p.Disconnected {
			return JoinResult{Status: JoinFull}
		}
		return g.rejoin(p, connID)
	}

	if g.playerByConn(connID) != nil || len(g.players) >= 4 || g.state != StateWaiting {
		return JoinResult{Status: JoinFull}
	}

	others := g.names()
	p := &Player{
		Seat:   len(g.players),
		UserID: userID,
		ConnID: connID,
		Name:   name,
	}
	g.players = append(g.players, p)
	g.log.WithFields(logrus.Fields{"seat": p.Seat, "name": name}).Info("player joined")
	g.logAction(p.Seat, "join", map[string]interface{}{"name": name})
	g.emit(GameEvent{Type: EventJoined, Name: name})

	if p.Seat == 3 {
		candidates := make([]string, 0, 3)
		for _, o := range g.players[1:] {
			candidates = append(candidates, o.Name)
		}
		g.send(g.players[0], GameEvent{Type: EventSelectPartner, Names: candidates})
		for _, o := range g.players[1:] {
			g.send(o, GameEvent{Type: EventPause})
		}
	}
	return JoinResult{Status: JoinJoined, Seat: p.Seat, Others: others}
}

// rejoin rebinds a disconnected player to a new connection. Lock held.
func (g *Game) rejoin(p *Player, connID uuid.UUID) JoinResult {
	p.ConnID = connID
	p.Disconnected = false
	g.log.WithField("seat", p.Seat).Info("player rejoined")
	g.logAction(p.Seat, "rejoin", nil)
	g.emit(GameEvent{Type: EventRejoined, Seat: intp(p.Seat)})
	snap := g.snapshot(p)
	snap.Rejoined = true
	return JoinResult{Status: JoinRejoined, Seat: p.Seat, Snapshot: snap}
}

// Rename changes a player's display name. No-op if the name is unchanged.
func (g *Game) Rename(connID uuid.UUID, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil || p.Name == name {
		return
	}
	p.Name = name
	g.logAction(p.Seat, "rename", map[string]interface{}{"name": name})
	g.emit(GameEvent{Type: EventRenamed, Name: name, Seat: intp(p.Seat)})
}

// SelectPartner is seat 0's one-time choice of partner once all four seats
// are filled. The chosen seat moves opposite seat 0 (new seat 2); the other
// two take seats 1 and 3 in increasing original-seat order. Teams are fixed
// as {0,2} vs {1,3} and the first hand is dealt immediately.
func (g *Game) SelectPartner(connID uuid.UUID, partnerSeat int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil || p.Seat != 0 || g.state != StateWaiting ||
		len(g.players) != 4 || partnerSeat < 1 || partnerSeat > 3 {
		return
	}

	others := make([]int, 0, 2)
	for seat := 1; seat <= 3; seat++ {
		if seat != partnerSeat {
			others = append(others, seat)
		}
	}
	sort.Ints(others)
	order := []int{0, others[0], partnerSeat, others[1]}

	reordered := make([]*Player, 4)
	for i, seat := range order {
		reordered[i] = g.players[seat]
	}
	g.players = reordered

	names := g.names()
	for i, pl := range g.players {
		pl.Seat = i
		g.send(pl, GameEvent{Type: EventStartGame, Seat: intp(i), Names: names})
	}
	g.log.WithField("partner", partnerSeat).Info("partner selected, starting game")
	g.logAction(0, "select_partner", map[string]interface{}{"partner": partnerSeat})
	g.startHand()
}

// Refresh returns the caller's current view of the game, or nil if the
// connection is not seated.
func (g *Game) Refresh(connID uuid.UUID) *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil {
		return nil
	}
	return g.snapshot(p)
}

// Disconnect handles a player's connection going away. While the game is
// still waiting the seat is removed outright (remaining seats renumber in
// join order); afterwards the seat is only flagged disconnected and all game
// state is preserved for a later rejoin. Returns true when no connected
// player remains and the game should be torn down.
func (g *Game) Disconnect(connID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil {
		return false
	}

	if g.state == StateWaiting {
		g.emit(GameEvent{Type: EventDisconnected, Name: p.Name})
		for i, pl := range g.players {
			if pl == p {
				g.players = append(g.players[:i], g.players[i+1:]...)
				break
			}
		}
		for i, pl := range g.players {
			pl.Seat = i
		}
		g.log.WithField("name", p.Name).Info("player left while waiting")
		g.logAction(-1, "leave", map[string]interface{}{"name": p.Name})
		return len(g.players) == 0
	}

	p.Disconnected = true
	g.log.WithField("seat", p.Seat).Info("player disconnected")
	g.logAction(p.Seat, "disconnect", nil)
	g.emit(GameEvent{Type: EventDisconnected, Seat: intp(p.Seat)})
	for _, pl := range g.players {
		if !pl.Disconnected {
			return false
		}
	}
	return true
}

// schedule runs fn after the pacing delay under the game lock. The callback
// is a no-op if the game was torn down while the delay was pending.
func (g *Game) schedule(fn func()) {
	time.AfterFunc(g.PaceDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed {
			return
		}
		fn()
	})
}
