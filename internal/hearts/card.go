// internal/hearts/card.go
package hearts

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Suit is one of the four card suits, stored as its single-letter wire code.
type Suit byte

const (
	Clubs    Suit = 'c'
	Diamonds Suit = 'd'
	Hearts   Suit = 'h'
	Spades   Suit = 's'
)

// Card is an immutable (suit, rank) value. Rank runs 2..14 with J=11, Q=12,
// K=13, A=14, so ordinary comparison of Rank gives the trick ordering.
type Card struct {
	Suit Suit
	Rank int
}

// TwoOfClubs must lead the first trick of every hand.
var TwoOfClubs = Card{Clubs, 2}

// QueenOfSpades is the 13-point card.
var QueenOfSpades = Card{Spades, 12}

var faceNames = map[int]string{11: "J", 12: "Q", 13: "K", 14: "A"}
var faceRanks = map[string]int{"J": 11, "Q": 12, "K": 13, "A": 14}

// Code returns the compact wire form of the card, e.g. "c5", "c10", "sQ".
func (c Card) Code() string {
	if name, ok := faceNames[c.Rank]; ok {
		return string(c.Suit) + name
	}
	return string(c.Suit) + strconv.Itoa(c.Rank)
}

func (c Card) String() string { return c.Code() }

// IsPoint reports whether the card scores: any heart or the queen of spades.
func (c Card) IsPoint() bool {
	return c.Suit == Hearts || c == QueenOfSpades
}

// ParseCard parses a wire code like "c5" or "sQ" back into a Card.
func ParseCard(code string) (Card, error) {
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	suit := Suit(code[0])
	switch suit {
	case Clubs, Diamonds, Hearts, Spades:
	default:
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}
	rest := code[1:]
	if rank, ok := faceRanks[rest]; ok {
		return Card{suit, rank}, nil
	}
	rank, err := strconv.Atoi(rest)
	if err != nil || rank < 2 || rank > 10 {
		return Card{}, fmt.Errorf("invalid rank in card code %q", code)
	}
	return Card{suit, rank}, nil
}

// MarshalJSON encodes the card as its wire code string.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code())
}

// UnmarshalJSON decodes a wire code string into the card.
func (c *Card) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseCard(code)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NewDeck returns the full 52-card deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 2; rank <= 14; rank++ {
			deck = append(deck, Card{suit, rank})
		}
	}
	return deck
}

// ParseCards parses a list of wire codes, failing on the first bad one.
func ParseCards(codes []string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
