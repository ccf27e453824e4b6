// internal/hearts/snapshot.go
package hearts

// Snapshot is the full per-player view of a game, keyed by the game state.
// Exactly one of Trading, Playing, Final is set once the game has left
// waiting; the shared fields below Names are set for every non-waiting state.
type Snapshot struct {
	State    State    `json:"state"`
	Rejoined bool     `json:"rejoined,omitempty"`
	Names    []string `json:"names"`

	Seat         *int   `json:"seat,omitempty"`
	Disconnected []bool `json:"disconnected,omitempty"`
	HandNum      int    `json:"hand_num,omitempty"`
	Score0       *int   `json:"score0,omitempty"`
	Score1       *int   `json:"score1,omitempty"`
	Hand         []Card `json:"hand,omitempty"`

	Trading *TradingSnapshot `json:"trading,omitempty"`
	Playing *PlayingSnapshot `json:"playing,omitempty"`
	Final   *FinalSnapshot   `json:"final,omitempty"`
}

// TradingSnapshot carries the trading-phase detail of a Snapshot.
type TradingSnapshot struct {
	Pending   []Card `json:"pending,omitempty"` // requester's own submitted cards
	Submitted []bool `json:"submitted"`         // per seat, whether a trade is in
}

// PlayingSnapshot carries the playing-phase detail of a Snapshot.
type PlayingSnapshot struct {
	HeartsBroken bool   `json:"hearts_broken"`
	Tricks0      int    `json:"tricks0"`
	Tricks1      int    `json:"tricks1"`
	TrickLeader  int    `json:"trick_leader"`
	Trick        []Card `json:"trick"`
	LastTrick    []Card `json:"last_trick"`
}

// FinalSnapshot carries the final scores of an ended game.
type FinalSnapshot struct {
	Score0 int `json:"score0"`
	Score1 int `json:"score1"`
}

// snapshot builds the requesting player's view. Caller holds the game lock.
func (g *Game) snapshot(p *Player) *Snapshot {
	snap := &Snapshot{
		State: g.state,
		Names: g.names(),
	}
	if g.state == StateWaiting {
		return snap
	}

	disconnected := make([]bool, len(g.players))
	for i, pl := range g.players {
		disconnected[i] = pl.Disconnected
	}
	snap.Seat = intp(p.Seat)
	snap.Disconnected = disconnected
	snap.HandNum = g.handNum
	snap.Score0 = intp(g.score0)
	snap.Score1 = intp(g.score1)
	snap.Hand = append([]Card(nil), p.Hand...)

	switch g.state {
	case StateTrading:
		submitted := make([]bool, len(g.players))
		for i, pl := range g.players {
			submitted[i] = pl.PendingTrade != nil
		}
		snap.Trading = &TradingSnapshot{
			Pending:   append([]Card(nil), p.PendingTrade...),
			Submitted: submitted,
		}
	case StatePlaying:
		leader := -1
		if g.trickLeader != nil {
			leader = g.trickLeader.Seat
		}
		snap.Playing = &PlayingSnapshot{
			HeartsBroken: g.heartsBroken,
			Tricks0:      g.tricks0,
			Tricks1:      g.tricks1,
			TrickLeader:  leader,
			Trick:        append([]Card(nil), g.trick...),
			LastTrick:    append([]Card(nil), g.lastTrick...),
		}
	case StateEnded:
		snap.Final = &FinalSnapshot{Score0: g.score0, Score1: g.score1}
	}
	return snap
}
