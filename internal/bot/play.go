package bot

import (
	"sort"

	"github.com/beloteio/belote-backend/internal/engine"
)

func sortedByPoints(cards []engine.Card, trump engine.Suit, ascending bool) []engine.Card {
	out := append([]engine.Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		less := engine.CardPoints(out[i], trump) < engine.CardPoints(out[j], trump)
		if ascending {
			return less
		}
		return !less
	})
	return out
}

func sortedByStrength(cards []engine.Card, trump engine.Suit) []engine.Card {
	out := append([]engine.Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		return engine.CardStrength(out[i], trump) < engine.CardStrength(out[j], trump)
	})
	return out
}

func ofSuit(cards []engine.Card, s engine.Suit) []engine.Card {
	var out []engine.Card
	for _, c := range cards {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}

func notOfSuit(cards []engine.Card, s engine.Suit) []engine.Card {
	var out []engine.Card
	for _, c := range cards {
		if c.Suit != s {
			out = append(out, c)
		}
	}
	return out
}

// DecideCard picks a card for seat from its legal plays.
func DecideCard(hand []engine.Card, trick engine.Trick, trump engine.Suit, seat int) engine.Card {
	legal := engine.LegalCards(hand, trick, trump, seat)
	if len(legal) == 1 {
		return legal[0]
	}
	if len(trick.Plays) == 0 {
		return decideLead(legal, trump)
	}
	return decideFollow(legal, trick, trump, seat)
}

func decideLead(legal []engine.Card, trump engine.Suit) engine.Card {
	trumps := ofSuit(legal, trump)
	plain := notOfSuit(legal, trump)

	// Open with the jack of trump when long in trump, to pull the
	// opponents' trumps.
	for _, c := range trumps {
		if c.Rank == engine.Jack && len(trumps) >= 3 {
			return c
		}
	}

	for _, c := range plain {
		if c.Rank == engine.Ace {
			return c
		}
	}

	if len(plain) > 0 {
		return sortedByPoints(plain, trump, true)[0]
	}
	return sortedByStrength(trumps, trump)[0]
}

func decideFollow(legal []engine.Card, trick engine.Trick, trump engine.Suit, seat int) engine.Card {
	lead, _ := trick.LeadSuit()
	winnerSeat, winnerStrength, winnerIsTrump := currentWinner(trick, trump)
	partnerWinning := engine.TeamOf(winnerSeat) == engine.TeamOf(seat)

	followCards := ofSuit(legal, lead)

	if partnerWinning {
		// Feed the partner's trick, or throw the cheapest card away.
		if len(followCards) > 0 {
			return sortedByPoints(followCards, trump, false)[0]
		}
		return sortedByPoints(legal, trump, true)[0]
	}

	if len(followCards) > 0 {
		if !winnerIsTrump {
			var winning []engine.Card
			for _, c := range followCards {
				if engine.CardStrength(c, trump) > winnerStrength {
					winning = append(winning, c)
				}
			}
			if len(winning) > 0 {
				return sortedByStrength(winning, trump)[0]
			}
		}
		return sortedByPoints(followCards, trump, true)[0]
	}

	if trumps := ofSuit(legal, trump); len(trumps) > 0 {
		return sortedByStrength(trumps, trump)[0]
	}
	return sortedByPoints(legal, trump, true)[0]
}

func currentWinner(trick engine.Trick, trump engine.Suit) (seat, strength int, isTrump bool) {
	lead, _ := trick.LeadSuit()
	strength = -1
	for i, pc := range trick.Plays {
		s := engine.CardStrength(pc.Card, trump)
		trumped := pc.Card.Suit == trump
		switch {
		case trumped && !isTrump:
			seat, strength, isTrump = pc.Seat, s, true
		case trumped && isTrump && s > strength:
			seat, strength = pc.Seat, s
		case !trumped && !isTrump && pc.Card.Suit == lead && (s > strength || i == 0):
			seat, strength = pc.Seat, s
		}
	}
	return seat, strength, isTrump
}
