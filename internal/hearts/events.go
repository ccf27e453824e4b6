// internal/hearts/events.go
package hearts

// EventType names an outbound game event.
type EventType string

const (
	EventJoined        EventType = "joined"
	EventRenamed       EventType = "renamed"
	EventRejoined      EventType = "rejoined"
	EventSelectPartner EventType = "select_partner"
	EventPause         EventType = "pause"
	EventStartGame     EventType = "start_game"
	EventStartHand     EventType = "start_hand"
	EventTraded        EventType = "traded"
	EventFinishTrade   EventType = "finish_trade"
	EventStartTurn     EventType = "start_turn"
	EventCardPlayed    EventType = "card_played"
	EventEndTrick      EventType = "end_trick"
	EventEndHand       EventType = "end_hand"
	EventEndGame       EventType = "end_game"
	EventDisconnected  EventType = "disconnected"
)

// GameEvent is the single outbound event envelope. Only the fields relevant
// to the Type are set; everything else is omitted from the wire form.
//
//	joined         Name
//	renamed        Name, Seat
//	rejoined       Seat
//	select_partner Names (partner candidates, addressed to seat 0)
//	pause          -
//	start_game     Seat (recipient's new seat), Names (final seat order)
//	start_hand     Hand (recipient's deal), HandNum
//	traded         Seat
//	finish_trade   Given, Received (both empty on no-trade hands)
//	start_turn     Seat
//	card_played    Card, Seat
//	end_trick      Seat (trick winner)
//	end_hand       Score0, Score1 (cumulative)
//	end_game       Score0, Score1 (final)
//	disconnected   Name (while waiting) or Seat (after the game has started)
type GameEvent struct {
	Type EventType `json:"type"`

	Seat     *int     `json:"seat,omitempty"`
	Name     string   `json:"name,omitempty"`
	Names    []string `json:"names,omitempty"`
	HandNum  int      `json:"hand_num,omitempty"`
	Card     *Card    `json:"card,omitempty"`
	Hand     []Card   `json:"hand,omitempty"`
	Given    []Card   `json:"given,omitempty"`
	Received []Card   `json:"received,omitempty"`
	Score0   *int     `json:"score0,omitempty"`
	Score1   *int     `json:"score1,omitempty"`
}

func intp(v int) *int { return &v }
