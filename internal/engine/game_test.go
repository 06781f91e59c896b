package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []Player {
	return []Player{
		{ID: "u0", Username: "north"},
		{ID: "u1", Username: "east"},
		{ID: "u2", Username: "south"},
		{ID: "u3", Username: "west"},
	}
}

// fixedDeal hands out the full deck suit-blocked so games are deterministic.
// No single hand holds both king and queen of hearts.
func fixedDeal() [4][]Card {
	return [4][]Card{
		{card(Hearts, Jack), card(Hearts, Nine), card(Spades, Ace), card(Spades, Ten), card(Diamonds, Ace), card(Diamonds, Ten), card(Clubs, Ace), card(Clubs, Ten)},
		{card(Hearts, Seven), card(Hearts, King), card(Spades, Seven), card(Spades, Jack), card(Diamonds, Seven), card(Diamonds, Jack), card(Clubs, Seven), card(Clubs, Jack)},
		{card(Hearts, Eight), card(Hearts, Ten), card(Spades, Eight), card(Spades, Queen), card(Diamonds, Eight), card(Diamonds, Queen), card(Clubs, Eight), card(Clubs, Queen)},
		{card(Hearts, Queen), card(Hearts, Ace), card(Spades, Nine), card(Spades, King), card(Diamonds, Nine), card(Diamonds, King), card(Clubs, Nine), card(Clubs, King)},
	}
}

// beloteDeal moves king and queen of hearts into seat 0's hand.
func beloteDeal() [4][]Card {
	return [4][]Card{
		{card(Hearts, King), card(Hearts, Queen), card(Spades, Ace), card(Spades, Ten), card(Diamonds, Ace), card(Diamonds, Ten), card(Clubs, Ace), card(Clubs, Ten)},
		{card(Hearts, Seven), card(Hearts, Jack), card(Spades, Seven), card(Spades, Jack), card(Diamonds, Seven), card(Diamonds, Jack), card(Clubs, Seven), card(Clubs, Jack)},
		{card(Hearts, Eight), card(Hearts, Ten), card(Spades, Eight), card(Spades, Queen), card(Diamonds, Eight), card(Diamonds, Queen), card(Clubs, Eight), card(Clubs, Queen)},
		{card(Hearts, Nine), card(Hearts, Ace), card(Spades, Nine), card(Spades, King), card(Diamonds, Nine), card(Diamonds, King), card(Clubs, Nine), card(Clubs, King)},
	}
}

func stubDeal(t *testing.T, hands [4][]Card) {
	t.Helper()
	orig := dealHands
	dealHands = func(*rand.Rand) [4][]Card {
		var out [4][]Card
		for i := range hands {
			out[i] = append([]Card(nil), hands[i]...)
		}
		return out
	}
	t.Cleanup(func() { dealHands = orig })
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

// autoplayHand plays the first legal card for whoever holds the turn until
// the hand resolves.
func autoplayHand(t *testing.T, g *Game) []Event {
	t.Helper()
	var all []Event
	for steps := 0; g.Phase == PhasePlaying; steps++ {
		require.Less(t, steps, 40, "hand did not resolve")
		seat := g.CurrentSeat
		legal := g.LegalCardsFor(seat)
		require.NotEmpty(t, legal)
		events, err := g.HandlePlayCard(seat, legal[0])
		require.NoError(t, err)
		all = append(all, events...)
	}
	return all
}

func TestNewGame_RequiresFourPlayers(t *testing.T) {
	_, err := NewGame(testPlayers()[:3], 0, nil)
	assert.ErrorIs(t, err, ErrPlayerCount)

	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, PhaseWaiting, g.Phase)
	assert.Equal(t, DefaultWinningScore, g.WinningScore)
}

func TestGame_BiddingToContract(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	events, err := g.StartGame()
	require.NoError(t, err)
	assert.True(t, hasEvent(events, EvtNewHand))
	assert.True(t, hasEvent(events, EvtDeal))
	require.Equal(t, PhaseBidding, g.Phase)
	assert.Equal(t, 1, g.CurrentSeat, "bidding opens left of dealer")

	events, err = g.HandleBid(1, numeric(80, Hearts))
	require.NoError(t, err)
	assert.True(t, hasEvent(events, EvtBidPlaced))

	for _, seat := range []int{2, 3} {
		_, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}
	events, err = g.HandleBid(0, pass())
	require.NoError(t, err)

	assert.True(t, hasEvent(events, EvtContractSet))
	assert.True(t, hasEvent(events, EvtPlayTurn))
	require.True(t, g.HasContract)
	assert.Equal(t, Contract{Value: 80, Suit: Hearts, Team: 1, BidderSeat: 1, Multiplier: 1}, g.Contract)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, 1, g.CurrentSeat, "left of dealer leads the first trick")
	assert.Equal(t, NoTeam, g.BeloteTeam)
}

func TestGame_FullHandScores(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.StartGame()
	require.NoError(t, err)
	_, err = g.HandleBid(1, numeric(80, Hearts))
	require.NoError(t, err)
	for _, seat := range []int{2, 3, 0} {
		_, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}

	events := autoplayHand(t, g)
	require.True(t, hasEvent(events, EvtHandResult))
	require.Len(t, g.Results, 1)

	res := g.Results[0]
	assert.Equal(t, TotalCardPoints+DixDeDerBonus, res.TeamPoints[0]+res.TeamPoints[1])
	assert.Equal(t, TricksPerHand, res.TricksWon[0]+res.TricksWon[1])

	// Deltas must follow the contract rules for whatever the auto-play did.
	attacking, defending := 1, 0
	switch {
	case res.Capot && res.CapotTeam == attacking:
		assert.Equal(t, 250, res.Deltas[attacking])
	case res.Capot:
		assert.Equal(t, TotalCardPoints+DixDeDerBonus+80, res.Deltas[defending])
	case res.ContractMade:
		assert.Equal(t, res.TeamPoints, [2]int{res.Deltas[0], res.Deltas[1]})
	default:
		assert.Equal(t, 0, res.Deltas[attacking])
		assert.Equal(t, TotalCardPoints+DixDeDerBonus+80, res.Deltas[defending])
	}

	assert.Equal(t, res.Deltas[0], g.TeamScores[0])
	assert.Equal(t, res.Deltas[1], g.TeamScores[1])

	// Nowhere near the target: the next hand's bidding begins, dealer rotated.
	assert.Equal(t, PhaseBidding, g.Phase)
	assert.Equal(t, 2, g.HandNumber)
	assert.Equal(t, 1, g.Dealer)
}

func TestGame_AllPassedRedeals(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.StartGame()
	require.NoError(t, err)

	var events []Event
	for _, seat := range []int{1, 2, 3, 0} {
		events, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}

	assert.True(t, hasEvent(events, EvtAllPassed))
	assert.True(t, hasEvent(events, EvtDeal), "redeal follows immediately")
	assert.Equal(t, PhaseBidding, g.Phase)
	assert.Equal(t, 1, g.HandNumber, "a thrown-in hand is not counted")
	assert.Equal(t, 1, g.Dealer)
	assert.Equal(t, 2, g.CurrentSeat)
}

func TestGame_RejectsOutOfOrderMoves(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.HandleBid(1, numeric(80, Hearts))
	assert.ErrorIs(t, err, ErrWrongPhase, "no bidding before the deal")

	_, err = g.StartGame()
	require.NoError(t, err)

	_, err = g.HandleBid(2, numeric(80, Hearts))
	assert.ErrorIs(t, err, ErrWrongTurn)
	assert.Empty(t, g.Bidding.Bids, "rejected moves leave no trace")

	_, err = g.HandlePlayCard(1, card(Hearts, Seven))
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = g.HandleBid(1, numeric(70, Hearts))
	assert.ErrorIs(t, err, ErrInvalidBid)
}

func TestGame_RejectsIllegalCards(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.StartGame()
	require.NoError(t, err)
	_, err = g.HandleBid(1, numeric(80, Hearts))
	require.NoError(t, err)
	for _, seat := range []int{2, 3, 0} {
		_, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}

	// Seat 1 leads but does not hold the ace of spades.
	_, err = g.HandlePlayCard(1, card(Spades, Ace))
	assert.ErrorIs(t, err, ErrIllegalCard)
	assert.Len(t, g.Players[1].Hand, 8)

	// A second actor racing for the same turn: once seat 1 has played,
	// a replayed move for seat 1 is a no-op rejection.
	_, err = g.HandlePlayCard(1, card(Hearts, Seven))
	require.NoError(t, err)
	_, err = g.HandlePlayCard(1, card(Hearts, King))
	assert.ErrorIs(t, err, ErrWrongTurn)
}

func TestGame_BeloteRebeloteAnnounced(t *testing.T) {
	stubDeal(t, beloteDeal())
	g, err := NewGame(testPlayers(), 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.StartGame()
	require.NoError(t, err)
	_, err = g.HandleBid(1, numeric(80, Hearts))
	require.NoError(t, err)
	for _, seat := range []int{2, 3, 0} {
		_, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}
	require.Equal(t, 0, g.BeloteTeam, "seat 0 holds king and queen of trump")

	events := autoplayHand(t, g)

	var beloteAt, rebeloteAt = -1, -1
	for i, e := range events {
		switch e.Type {
		case EvtBelote:
			require.Equal(t, -1, beloteAt, "belote announced once")
			beloteAt = i
		case EvtRebelote:
			require.Equal(t, -1, rebeloteAt, "rebelote announced once")
			rebeloteAt = i
		}
	}
	require.NotEqual(t, -1, beloteAt)
	require.NotEqual(t, -1, rebeloteAt)
	assert.Less(t, beloteAt, rebeloteAt)

	res := g.Results[0]
	assert.Equal(t, 0, res.BeloteTeam)
}

func TestGame_FinishesAtTargetScore(t *testing.T) {
	stubDeal(t, fixedDeal())
	g, err := NewGame(testPlayers(), 50, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.Dealer = 0

	_, err = g.StartGame()
	require.NoError(t, err)
	_, err = g.HandleBid(1, numeric(80, Hearts))
	require.NoError(t, err)
	for _, seat := range []int{2, 3, 0} {
		_, err = g.HandleBid(seat, pass())
		require.NoError(t, err)
	}

	events := autoplayHand(t, g)
	require.True(t, hasEvent(events, EvtGameOver))
	assert.Equal(t, PhaseFinished, g.Phase)

	winner, ok := g.WinningTeam()
	require.True(t, ok)
	if g.TeamScores[1] > g.TeamScores[0] {
		assert.Equal(t, 1, winner)
	} else {
		assert.Equal(t, 0, winner)
	}

	_, err = g.HandleBid(1, numeric(90, Hearts))
	assert.ErrorIs(t, err, ErrWrongPhase)
}
