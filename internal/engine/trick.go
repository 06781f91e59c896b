package engine

import "errors"

var ErrTrickIncomplete = errors.New("trick does not have exactly 4 cards")

// PlayedCard pairs a card with the seat that played it.
type PlayedCard struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Trick holds the cards played to one trick, in play order. It is a value:
// PlayToTrick returns a new trick.
type Trick struct {
	Plays  []PlayedCard
	Number int // 1..8
}

// NewTrick returns an empty trick with the given number.
func NewTrick(number int) Trick { return Trick{Number: number} }

// LeadSuit returns the suit of the first card played, if any.
func (t Trick) LeadSuit() (Suit, bool) {
	if len(t.Plays) == 0 {
		return 0, false
	}
	return t.Plays[0].Card.Suit, true
}

// Complete reports whether all four seats have played.
func (t Trick) Complete() bool { return len(t.Plays) == 4 }

// PlayToTrick appends a play and returns the new trick.
func PlayToTrick(t Trick, seat int, c Card) Trick {
	plays := make([]PlayedCard, 0, len(t.Plays)+1)
	plays = append(plays, t.Plays...)
	plays = append(plays, PlayedCard{Seat: seat, Card: c})
	return Trick{Plays: plays, Number: t.Number}
}

// TrickPoints sums the card points in the trick under the given trump.
func TrickPoints(t Trick, trump Suit) int {
	total := 0
	for _, pc := range t.Plays {
		total += CardPoints(pc.Card, trump)
	}
	return total
}

// provisionalWinner scans the plays made so far. A trump beats any non-trump;
// among trumps the higher trump order wins; among non-trumps only lead-suit
// cards can win. Play order never matters beyond fixing the lead suit.
func provisionalWinner(t Trick, trump Suit) (int, bool) {
	if len(t.Plays) == 0 {
		return 0, false
	}
	lead := t.Plays[0].Card.Suit
	winner := t.Plays[0]
	winnerIsTrump := winner.Card.Suit == trump

	for _, pc := range t.Plays[1:] {
		isTrump := pc.Card.Suit == trump
		switch {
		case isTrump && !winnerIsTrump:
			winner, winnerIsTrump = pc, true
		case isTrump && winnerIsTrump:
			if CardStrength(pc.Card, trump) > CardStrength(winner.Card, trump) {
				winner = pc
			}
		case !isTrump && !winnerIsTrump && pc.Card.Suit == lead:
			if winner.Card.Suit != lead || CardStrength(pc.Card, trump) > CardStrength(winner.Card, trump) {
				winner = pc
			}
		}
	}
	return winner.Seat, true
}

// TrickWinner returns the seat that won a completed trick.
func TrickWinner(t Trick, trump Suit) (int, error) {
	if !t.Complete() {
		return 0, ErrTrickIncomplete
	}
	seat, _ := provisionalWinner(t, trump)
	return seat, nil
}

func highestTrumpStrength(t Trick, trump Suit) int {
	highest := -1
	for _, pc := range t.Plays {
		if pc.Card.Suit == trump {
			if s := CardStrength(pc.Card, trump); s > highest {
				highest = s
			}
		}
	}
	return highest
}

func higherTrumps(cards []Card, trump Suit, above int) []Card {
	var out []Card
	for _, c := range cards {
		if c.Suit == trump && CardStrength(c, trump) > above {
			out = append(out, c)
		}
	}
	return out
}

// LegalCards returns the subset of hand that seat may play to the trick.
// The result is never empty for a non-empty hand.
//
// Rules, in order: follow the lead suit if able (overtrumping when trump was
// led); otherwise trump if an opponent holds the trick, overtrumping when
// possible; a player whose partner holds the trick may discard freely.
func LegalCards(hand []Card, t Trick, trump Suit, seat int) []Card {
	if len(t.Plays) == 0 {
		return append([]Card(nil), hand...)
	}

	lead := t.Plays[0].Card.Suit
	leadCards := cardsOfSuit(hand, lead)
	trumpCards := cardsOfSuit(hand, trump)

	if lead == trump {
		if len(trumpCards) == 0 {
			return append([]Card(nil), hand...)
		}
		if higher := higherTrumps(trumpCards, trump, highestTrumpStrength(t, trump)); len(higher) > 0 {
			return higher
		}
		return trumpCards
	}

	if len(leadCards) > 0 {
		return leadCards
	}

	winnerSeat, _ := provisionalWinner(t, trump)
	if TeamOf(winnerSeat) == TeamOf(seat) {
		// Partner holds the trick: no obligation to trump.
		return append([]Card(nil), hand...)
	}

	if len(trumpCards) > 0 {
		if highest := highestTrumpStrength(t, trump); highest >= 0 {
			if higher := higherTrumps(trumpCards, trump, highest); len(higher) > 0 {
				return higher
			}
			// Cannot overtrump but must still trump.
		}
		return trumpCards
	}

	return append([]Card(nil), hand...)
}
