// internal/hearts/trick.go
package hearts

import "github.com/google/uuid"

// startTrick begins a trick with the given player leading. Lock held.
func (g *Game) startTrick(p *Player) {
	g.trickLeader = p
	g.trick = nil
	g.startTurn(p)
}

// startTurn flags the player as active and announces the turn. Lock held.
func (g *Game) startTurn(p *Player) {
	p.Turn = true
	g.emit(GameEvent{Type: EventStartTurn, Seat: intp(p.Seat)})
}

// PlayCard attempts to play a card for the given connection.
//
// The play must come from the seat whose turn it is, with a held card, while
// the game is in the playing state. Legality on top of that, in order:
//   - the first card of a fresh hand must be the two of clubs
//   - a lead may not be a point card until hearts are broken, unless the
//     leader holds nothing but point cards
//   - a follow must match the led suit when possible; on the first trick a
//     point card is illegal while a non-point card is held, even off-suit
//
// Any violation returns OutcomeInvalid with no mutation. A valid fourth card
// resolves the trick.
func (g *Game) PlayCard(connID uuid.UUID, card Card) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByConn(connID)
	if p == nil || g.state != StatePlaying || !p.Turn || !p.HasCard(card) {
		return OutcomeInvalid
	}

	firstTrick := len(p.Hand) == 13
	if len(g.trick) == 0 {
		if (firstTrick && card != TwoOfClubs) ||
			(!g.heartsBroken && p.CannotPlayPointCard(card)) {
			return OutcomeInvalid
		}
	} else {
		led := g.trick[0].Suit
		if (card.Suit != led && p.HasSuit(led)) ||
			(firstTrick && p.CannotPlayPointCard(card)) {
			return OutcomeInvalid
		}
	}

	p.Turn = false
	p.RemoveCard(card)
	g.trick = append(g.trick, card)
	if card.IsPoint() {
		g.heartsBroken = true
	}
	g.logAction(p.Seat, "play_card", map[string]interface{}{"card": card.Code()})
	g.emit(GameEvent{Type: EventCardPlayed, Card: &card, Seat: intp(p.Seat)})

	if len(g.trick) == 4 {
		g.endTrick()
	} else {
		g.startTurn(g.players[(p.Seat+1)%4])
	}
	return OutcomePlayed
}

// endTrick resolves the completed trick: the highest card of the led suit
// wins (off-suit cards never win), the winning seat's team takes the trick
// and its points. The result broadcast and the next trick (or the hand end)
// are held back by the pacing delay; no seat has the turn flag meanwhile, so
// plays raced against an unresolved trick fail as out of turn. Lock held.
func (g *Game) endTrick() {
	led := g.trick[0].Suit
	winIdx := 0
	for i, c := range g.trick {
		if c.Suit == led && c.Rank > g.trick[winIdx].Rank {
			winIdx = i
		}
	}
	g.lastTrick = append([]Card(nil), g.trick...)

	winner := g.players[(winIdx+g.trickLeader.Seat)%4]
	points := 0
	for _, c := range g.trick {
		if c.Suit == Hearts {
			points++
		}
		if c == QueenOfSpades {
			points += 13
		}
	}
	if winner.Seat%2 == 0 {
		g.tricks0++
		g.handScore0 += points
	} else {
		g.tricks1++
		g.handScore1 += points
	}
	g.logAction(winner.Seat, "end_trick", map[string]interface{}{"points": points})

	g.schedule(func() { g.finishTrick(winner) })
}

// finishTrick is the delayed tail of endTrick. Lock held.
func (g *Game) finishTrick(winner *Player) {
	g.emit(GameEvent{Type: EventEndTrick, Seat: intp(winner.Seat)})
	if len(winner.Hand) == 0 {
		g.endHand()
	} else {
		g.startTrick(winner)
	}
}

// endHand tallies the finished hand into the cumulative scores. A team that
// took all 26 points shoots the moon: it scores 0 and the opponents 36.
// Lock held.
func (g *Game) endHand() {
	score0, score1 := g.handScore0, g.handScore1
	if score0 == 26 {
		score0, score1 = 0, 36
	} else if score1 == 26 {
		score0, score1 = 36, 0
	}
	g.score0 += score0
	g.score1 += score1
	g.logAction(-1, "end_hand", map[string]interface{}{
		"score0": g.score0, "score1": g.score1,
	})

	g.schedule(g.finishHand)
}

// finishHand is the delayed tail of endHand: broadcast the cumulative scores,
// then end the game if a team is past the threshold and the scores differ,
// otherwise deal the next hand. Lock held.
func (g *Game) finishHand() {
	g.emit(GameEvent{Type: EventEndHand, Score0: intp(g.score0), Score1: intp(g.score1)})
	if (g.score0 > ScoreToWin || g.score1 > ScoreToWin) && g.score0 != g.score1 {
		g.endGame()
	} else {
		g.startHand()
	}
}

// endGame finalizes the game; no further actions are accepted. Lock held.
func (g *Game) endGame() {
	g.state = StateEnded
	g.log.WithFields(map[string]interface{}{
		"score0": g.score0, "score1": g.score1,
	}).Info("game ended")
	g.logAction(-1, "end_game", map[string]interface{}{
		"score0": g.score0, "score1": g.score1,
	})
	g.emit(GameEvent{Type: EventEndGame, Score0: intp(g.score0), Score1: intp(g.score1)})
}
