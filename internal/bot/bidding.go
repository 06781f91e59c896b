// Package bot supplies legal moves for seats nobody is operating: bot seats,
// disconnected players, and turn timeouts. The engine never depends on it.
package bot

import (
	"sort"

	"github.com/beloteio/belote-backend/internal/engine"
)

type handEvaluation struct {
	suit       engine.Suit
	strength   int
	trumpCount int
	hasJack    bool
	hasNine    bool
}

// evaluateSuit scores how well the hand would perform with the given trump:
// trump card points, side aces, protected tens, plus bonuses for trump length
// and the jack+nine pair.
func evaluateSuit(hand []engine.Card, trump engine.Suit) handEvaluation {
	eval := handEvaluation{suit: trump}

	for _, c := range hand {
		if c.Suit == trump {
			eval.trumpCount++
			eval.strength += engine.CardPoints(c, trump)
			if c.Rank == engine.Jack {
				eval.hasJack = true
			}
			if c.Rank == engine.Nine {
				eval.hasNine = true
			}
		} else if c.Rank == engine.Ace {
			eval.strength += 11
		}
	}

	for s := engine.Hearts; s <= engine.Spades; s++ {
		if s == trump {
			continue
		}
		hasAce, hasTen := false, false
		for _, c := range hand {
			if c.Suit == s {
				hasAce = hasAce || c.Rank == engine.Ace
				hasTen = hasTen || c.Rank == engine.Ten
			}
		}
		if hasAce && hasTen {
			eval.strength += 10
		}
	}

	if eval.trumpCount >= 4 {
		eval.strength += 10
	}
	if eval.trumpCount >= 5 {
		eval.strength += 20
	}
	if eval.hasJack && eval.hasNine {
		eval.strength += 30
	}
	return eval
}

// DecideBid picks an auction move for seat. The result is always valid for
// the given state.
func DecideBid(hand []engine.Card, s engine.BiddingState, seat int) engine.Bid {
	passBid := engine.Bid{Kind: engine.BidPass}

	var evals []handEvaluation
	for trump := engine.Hearts; trump <= engine.Spades; trump++ {
		if e := evaluateSuit(hand, trump); e.trumpCount >= 3 {
			evals = append(evals, e)
		}
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].strength > evals[j].strength })

	if len(evals) > 0 {
		best := evals[0]

		var value int
		switch {
		case best.strength >= 140 && best.hasJack && best.hasNine && best.trumpCount >= 5:
			value = 150
		case best.strength >= 120 && best.hasJack && best.hasNine:
			value = 130
		case best.strength >= 100 && best.trumpCount >= 4:
			value = 100
		case best.strength >= 80:
			value = 80
		}

		if value > 0 {
			highest := 0
			if s.High != nil {
				highest = s.High.Value
			}
			if value <= highest {
				// One reluctant overbid at most.
				next := highest + engine.BidStep
				if best.strength >= next {
					value = next
				} else {
					value = 0
				}
			}
			if value > 0 {
				bid := engine.Bid{Kind: engine.BidNumeric, Value: value, Suit: best.suit}
				if engine.IsValidBid(s, seat, bid) {
					return bid
				}
			}
		}
	}

	// No hand to bid on; coinche when holding strong defence against the
	// declared trump.
	coinche := engine.Bid{Kind: engine.BidCoinche}
	if engine.IsValidBid(s, seat, coinche) && s.High != nil {
		declared := s.High.Suit
		hasJackOfDeclared := false
		sideAces := 0
		for _, c := range hand {
			if c.Suit == declared && c.Rank == engine.Jack {
				hasJackOfDeclared = true
			}
			if c.Suit != declared && c.Rank == engine.Ace {
				sideAces++
			}
		}
		if hasJackOfDeclared || sideAces >= 3 {
			return coinche
		}
	}

	return passBid
}
