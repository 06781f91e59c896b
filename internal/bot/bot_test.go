package bot

import (
	"math/rand"
	"testing"

	"github.com/beloteio/belote-backend/internal/engine"
)

// Whatever the bot decides must be accepted by the engine as-is.
func TestDecideBid_AlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		hands := engine.ShuffleDeal(rng)
		s := engine.NewBiddingState(rng.Intn(4))

		for steps := 0; !s.Done && steps < 50; steps++ {
			seat := s.CurrentBidder
			bid := DecideBid(hands[seat], s, seat)
			if !engine.IsValidBid(s, seat, bid) {
				t.Fatalf("bot produced invalid bid %+v in state %+v", bid, s)
			}
			s = engine.PlaceBid(s, seat, bid)
		}
		if !s.Done {
			t.Fatal("bot auction did not terminate")
		}
	}
}

func TestDecideBid_PassesOnWeakHand(t *testing.T) {
	// Scattered low cards with no 3-card suit worth naming trump.
	hand := []engine.Card{
		{Suit: engine.Hearts, Rank: engine.Seven},
		{Suit: engine.Hearts, Rank: engine.Eight},
		{Suit: engine.Diamonds, Rank: engine.Seven},
		{Suit: engine.Diamonds, Rank: engine.Eight},
		{Suit: engine.Clubs, Rank: engine.Seven},
		{Suit: engine.Clubs, Rank: engine.Eight},
		{Suit: engine.Spades, Rank: engine.Seven},
		{Suit: engine.Spades, Rank: engine.Eight},
	}
	s := engine.NewBiddingState(0)
	bid := DecideBid(hand, s, 1)
	if bid.Kind != engine.BidPass {
		t.Fatalf("want pass on a worthless hand, got %+v", bid)
	}
}

func TestDecideBid_BidsStrongTrumpHand(t *testing.T) {
	hand := []engine.Card{
		{Suit: engine.Hearts, Rank: engine.Jack},
		{Suit: engine.Hearts, Rank: engine.Nine},
		{Suit: engine.Hearts, Rank: engine.Ace},
		{Suit: engine.Hearts, Rank: engine.Ten},
		{Suit: engine.Hearts, Rank: engine.King},
		{Suit: engine.Spades, Rank: engine.Ace},
		{Suit: engine.Clubs, Rank: engine.Ace},
		{Suit: engine.Diamonds, Rank: engine.Ace},
	}
	s := engine.NewBiddingState(0)
	bid := DecideBid(hand, s, 1)
	if bid.Kind != engine.BidNumeric || bid.Suit != engine.Hearts {
		t.Fatalf("want a hearts bid, got %+v", bid)
	}
	if bid.Value < 130 {
		t.Fatalf("a near-perfect hand should bid high, got %d", bid.Value)
	}
}

// Full random games: the bot's card is always in the legal set and games
// always run to completion.
func TestDecideCard_PlaysFullGames(t *testing.T) {
	for i := 0; i < 20; i++ {
		players := []engine.Player{
			{ID: "b0", Username: "b0", IsBot: true},
			{ID: "b1", Username: "b1", IsBot: true},
			{ID: "b2", Username: "b2", IsBot: true},
			{ID: "b3", Username: "b3", IsBot: true},
		}
		g, err := engine.NewGame(players, 500, rand.New(rand.NewSource(int64(i))))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := g.StartGame(); err != nil {
			t.Fatal(err)
		}

		for steps := 0; !g.Over(); steps++ {
			if steps > 5000 {
				t.Fatal("game did not finish")
			}
			seat := g.CurrentSeat
			switch g.Phase {
			case engine.PhaseBidding:
				bid := DecideBid(g.PlayerHand(seat), g.Bidding, seat)
				if _, err := g.HandleBid(seat, bid); err != nil {
					t.Fatalf("bot bid rejected: %v", err)
				}
			case engine.PhasePlaying:
				c := DecideCard(g.PlayerHand(seat), g.CurrentTrick, g.Contract.Suit, seat)
				if _, err := g.HandlePlayCard(seat, c); err != nil {
					t.Fatalf("bot card rejected: %v (card %v)", err, c)
				}
			default:
				t.Fatalf("unexpected phase %v", g.Phase)
			}
		}

		if g.TeamScores[0] < 500 && g.TeamScores[1] < 500 {
			t.Fatalf("finished below target: %v", g.TeamScores)
		}
	}
}
