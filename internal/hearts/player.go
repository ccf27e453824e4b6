// internal/hearts/player.go
package hearts

import "github.com/google/uuid"

// Player is one seat in a game. The UserID survives reconnects; the ConnID is
// replaced every time the player's connection is rebound.
type Player struct {
	Seat         int
	UserID       uuid.UUID
	ConnID       uuid.UUID
	Name         string
	Disconnected bool

	Hand         []Card
	PendingTrade []Card // exactly 3 cards while a trade is submitted, else nil
	Turn         bool
}

// HasCard reports whether the card is currently in the player's hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// RemoveCard removes one instance of the card from the hand.
// Returns false if the card was not held.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasSuit reports whether any held card matches the given suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// HasNonPointCard reports whether any held card is not a point card.
func (p *Player) HasNonPointCard() bool {
	for _, c := range p.Hand {
		if !c.IsPoint() {
			return true
		}
	}
	return false
}

// CannotPlayPointCard reports whether playing the card would be an illegal
// point-card play: the card scores and the player still holds a non-point
// alternative. Only the acting player's own hand is consulted.
func (p *Player) CannotPlayPointCard(card Card) bool {
	return card.IsPoint() && p.HasNonPointCard()
}
