// internal/hearts/card_test.go
package hearts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckIsCompleteDomain(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[Card]bool)
	perSuit := make(map[Suit]int)
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
		perSuit[c.Suit]++
		assert.GreaterOrEqual(t, c.Rank, 2)
		assert.LessOrEqual(t, c.Rank, 14)
	}
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		assert.Equal(t, 13, perSuit[suit])
	}
}

func TestCardCodeRoundTrip(t *testing.T) {
	for _, c := range NewDeck() {
		parsed, err := ParseCard(c.Code())
		require.NoError(t, err, "code %s", c.Code())
		assert.Equal(t, c, parsed)
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "c", "x5", "c1", "c15", "cB", "5c"} {
		_, err := ParseCard(code)
		assert.Error(t, err, "code %q", code)
	}
}

func TestCardWireFormat(t *testing.T) {
	assert.Equal(t, "c2", TwoOfClubs.Code())
	assert.Equal(t, "sQ", QueenOfSpades.Code())
	assert.Equal(t, "c10", Card{Clubs, 10}.Code())
	assert.Equal(t, "hA", Card{Hearts, 14}.Code())

	data, err := json.Marshal([]Card{TwoOfClubs, QueenOfSpades})
	require.NoError(t, err)
	assert.JSONEq(t, `["c2","sQ"]`, string(data))

	var cards []Card
	require.NoError(t, json.Unmarshal([]byte(`["d7","hK"]`), &cards))
	assert.Equal(t, []Card{{Diamonds, 7}, {Hearts, 13}}, cards)
}

func TestPointCardsSumToTwentySix(t *testing.T) {
	total := 0
	pointCards := 0
	for _, c := range NewDeck() {
		if !c.IsPoint() {
			continue
		}
		pointCards++
		if c.Suit == Hearts {
			total++
		}
		if c == QueenOfSpades {
			total += 13
		}
	}
	assert.Equal(t, 14, pointCards)
	assert.Equal(t, 26, total)
}

func TestRankOrdering(t *testing.T) {
	codes := []string{"c2", "c9", "c10", "cJ", "cQ", "cK", "cA"}
	prev := 0
	for _, code := range codes {
		c, err := ParseCard(code)
		require.NoError(t, err)
		assert.Greater(t, c.Rank, prev, "%s should outrank the previous card", code)
		prev = c.Rank
	}
}
