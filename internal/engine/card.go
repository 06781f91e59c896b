package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Suit is one of the four card suits.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}

func (s Suit) String() string {
	if s < Hearts || s > Spades {
		return "unknown"
	}
	return suitNames[s]
}

// ParseSuit maps a wire name back to a Suit.
func ParseSuit(name string) (Suit, bool) {
	for i, n := range suitNames {
		if n == name {
			return Suit(i), true
		}
	}
	return 0, false
}

// Suits travel as their names, not as numbers.
func (s Suit) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseSuit(name)
	if !ok {
		return fmt.Errorf("unknown suit %q", name)
	}
	*s = parsed
	return nil
}

// Rank is one of the eight ranks of the 32-card deck.
type Rank int

const (
	Seven Rank = iota
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = [...]string{"7", "8", "9", "10", "jack", "queen", "king", "ace"}

func (r Rank) String() string {
	if r < Seven || r > Ace {
		return "unknown"
	}
	return rankNames[r]
}

// ParseRank maps a wire name back to a Rank.
func ParseRank(name string) (Rank, bool) {
	for i, n := range rankNames {
		if n == name {
			return Rank(i), true
		}
	}
	return 0, false
}

func (r Rank) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseRank(name)
	if !ok {
		return fmt.Errorf("unknown rank %q", name)
	}
	*r = parsed
	return nil
}

// Card is an immutable value; two cards are equal iff suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string { return c.Rank.String() + "_" + c.Suit.String() }

// Strength orders within a suit, weakest first. Trump promotes the Jack
// and the Nine above the Ace.
var (
	trumpOrder = [...]Rank{Seven, Eight, Queen, King, Ten, Ace, Nine, Jack}
	plainOrder = [...]Rank{Seven, Eight, Nine, Jack, Queen, King, Ten, Ace}
)

var (
	trumpPoints = map[Rank]int{Jack: 20, Nine: 14, Ace: 11, Ten: 10, King: 4, Queen: 3, Eight: 0, Seven: 0}
	plainPoints = map[Rank]int{Ace: 11, Ten: 10, King: 4, Queen: 3, Jack: 2, Nine: 0, Eight: 0, Seven: 0}
)

// CardStrength returns the card's strength under the given trump suit.
// Higher is stronger; strengths only compare within one suit.
func CardStrength(c Card, trump Suit) int {
	order := plainOrder
	if c.Suit == trump {
		order = trumpOrder
	}
	for i, r := range order {
		if r == c.Rank {
			return i
		}
	}
	return -1
}

// CardPoints returns the point value of a card under the given trump suit.
func CardPoints(c Card, trump Suit) int {
	if c.Suit == trump {
		return trumpPoints[c.Rank]
	}
	return plainPoints[c.Rank]
}

// NewDeck returns the 32 cards of the Belote deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 32)
	for s := Hearts; s <= Spades; s++ {
		for r := Seven; r <= Ace; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeal shuffles a fresh deck and deals it round-robin, 8 cards per seat.
func ShuffleDeal(rng *rand.Rand) [4][]Card {
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	var hands [4][]Card
	for i, c := range deck {
		hands[i%4] = append(hands[i%4], c)
	}
	return hands
}

// TeamOf returns the team index for a seat. Seats 0 and 2 form team 0,
// seats 1 and 3 form team 1; partnership is never stored separately.
func TeamOf(seat int) int { return seat % 2 }

func containsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}

func removeCard(cards []Card, target Card) ([]Card, bool) {
	for i, c := range cards {
		if c == target {
			out := make([]Card, 0, len(cards)-1)
			out = append(out, cards[:i]...)
			out = append(out, cards[i+1:]...)
			return out, true
		}
	}
	return cards, false
}

func cardsOfSuit(cards []Card, s Suit) []Card {
	var out []Card
	for _, c := range cards {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}
