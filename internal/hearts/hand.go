// internal/hearts/hand.go
package hearts

import "github.com/google/uuid"

// tradeOffset maps hand_num mod 4 to the seat offset a submitted trade
// travels: none, left, right, across. Seat i's cards go to seat (i+off)%4.
var tradeOffset = [4]int{0, 3, 1, 2}

// startHand shuffles and deals a new hand, then enters trading, or play
// directly on every fourth hand (no trade; an empty pass is announced).
// Lock held.
func (g *Game) startHand() {
	deck := NewDeck()
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	g.handNum++
	g.heartsBroken = false
	g.tricks0, g.tricks1 = 0, 0
	g.handScore0, g.handScore1 = 0, 0
	g.trick = nil
	g.lastTrick = nil

	for i, p := range g.players {
		p.Hand = append([]Card(nil), deck[i*13:(i+1)*13]...)
		p.PendingTrade = nil
		p.Turn = false
		g.send(p, GameEvent{
			Type:    EventStartHand,
			Hand:    append([]Card(nil), p.Hand...),
			HandNum: g.handNum,
		})
	}
	g.log.WithField("hand", g.handNum).Info("hand dealt")
	g.logAction(-1, "start_hand", map[string]interface{}{"hand_num": g.handNum})

	if g.handNum%4 == 0 {
		// every fourth hand there is no trading
		g.emit(GameEvent{Type: EventFinishTrade})
		g.beginPlay()
	} else {
		g.state = StateTrading
	}
}

// Trade records a seat's 3-card trade selection. Valid only while trading,
// once per seat per hand, with exactly 3 distinct cards all held by the seat;
// anything else is rejected with no state change. The pass executes
// simultaneously once all four seats have submitted.
func (g *Game) Trade(connID uuid.UUID, cards []Card) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil || g.state != StateTrading || p.PendingTrade != nil || len(cards) != 3 {
		return OutcomeInvalid
	}
	for i, c := range cards {
		if !p.HasCard(c) {
			return OutcomeInvalid
		}
		for _, prev := range cards[:i] {
			if prev == c {
				return OutcomeInvalid
			}
		}
	}

	p.PendingTrade = append([]Card(nil), cards...)
	g.logAction(p.Seat, "trade", nil)
	g.emit(GameEvent{Type: EventTraded, Seat: intp(p.Seat)})

	for _, pl := range g.players {
		if pl.PendingTrade == nil {
			return OutcomePending
		}
	}
	g.executeTrades()
	return OutcomePending
}

// executeTrades applies all four pending trades at once, tells each seat what
// it gave and received, and starts play. Lock held.
func (g *Game) executeTrades() {
	off := tradeOffset[g.handNum%4]
	given := make([][]Card, 4)
	for i, p := range g.players {
		given[i] = p.PendingTrade
	}
	for i, p := range g.players {
		received := given[(i+4-off)%4]
		g.send(p, GameEvent{
			Type:     EventFinishTrade,
			Given:    append([]Card(nil), given[i]...),
			Received: append([]Card(nil), received...),
		})
		for _, c := range given[i] {
			p.RemoveCard(c)
		}
		p.Hand = append(p.Hand, received...)
		p.PendingTrade = nil
	}
	g.log.WithField("hand", g.handNum).Info("trades executed")
	g.logAction(-1, "finish_trade", nil)
	g.beginPlay()
}

// beginPlay enters the playing state with the holder of the two of clubs
// leading the first trick. Lock held.
func (g *Game) beginPlay() {
	g.state = StatePlaying
	for _, p := range g.players {
		if p.HasCard(TwoOfClubs) {
			g.startTrick(p)
			return
		}
	}
}
