package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capotTricks distributes the full deck into 8 tricks, trump hearts, with
// seat 0 winning every one of them.
func capotTricks() []Trick {
	tricks := []Trick{
		trickOf(PlayedCard{0, card(Hearts, Jack)}, PlayedCard{1, card(Hearts, Seven)}, PlayedCard{2, card(Hearts, Eight)}, PlayedCard{3, card(Hearts, Queen)}),
		trickOf(PlayedCard{0, card(Hearts, Nine)}, PlayedCard{1, card(Hearts, King)}, PlayedCard{2, card(Hearts, Ten)}, PlayedCard{3, card(Hearts, Ace)}),
		trickOf(PlayedCard{0, card(Spades, Ace)}, PlayedCard{1, card(Spades, Seven)}, PlayedCard{2, card(Spades, Eight)}, PlayedCard{3, card(Spades, Nine)}),
		trickOf(PlayedCard{0, card(Spades, Ten)}, PlayedCard{1, card(Spades, Jack)}, PlayedCard{2, card(Spades, Queen)}, PlayedCard{3, card(Spades, King)}),
		trickOf(PlayedCard{0, card(Diamonds, Ace)}, PlayedCard{1, card(Diamonds, Seven)}, PlayedCard{2, card(Diamonds, Eight)}, PlayedCard{3, card(Diamonds, Nine)}),
		trickOf(PlayedCard{0, card(Diamonds, Ten)}, PlayedCard{1, card(Diamonds, Jack)}, PlayedCard{2, card(Diamonds, Queen)}, PlayedCard{3, card(Diamonds, King)}),
		trickOf(PlayedCard{0, card(Clubs, Ace)}, PlayedCard{1, card(Clubs, Seven)}, PlayedCard{2, card(Clubs, Eight)}, PlayedCard{3, card(Clubs, Nine)}),
		trickOf(PlayedCard{0, card(Clubs, Ten)}, PlayedCard{1, card(Clubs, Jack)}, PlayedCard{2, card(Clubs, Queen)}, PlayedCard{3, card(Clubs, King)}),
	}
	for i := range tricks {
		tricks[i].Number = i + 1
	}
	return tricks
}

// splitTricks is capotTricks with the fourth and eighth tricks handed to
// seat 1, splitting raw points 114 (team 0) to 38+10 (team 1).
func splitTricks() []Trick {
	tricks := capotTricks()
	tricks[3] = trickOf(PlayedCard{0, card(Spades, Jack)}, PlayedCard{1, card(Spades, Ten)}, PlayedCard{2, card(Spades, Queen)}, PlayedCard{3, card(Spades, King)})
	tricks[3].Number = 4
	tricks[7] = trickOf(PlayedCard{0, card(Clubs, Jack)}, PlayedCard{1, card(Clubs, Ten)}, PlayedCard{2, card(Clubs, Queen)}, PlayedCard{3, card(Clubs, King)})
	tricks[7].Number = 8
	return tricks
}

func heartsContract(value, team, bidder, multiplier int) Contract {
	return Contract{Value: value, Suit: Hearts, Team: team, BidderSeat: bidder, Multiplier: multiplier}
}

func TestHasBeloteRebelote(t *testing.T) {
	hand := []Card{card(Hearts, King), card(Hearts, Queen), card(Spades, Seven)}
	assert.True(t, HasBeloteRebelote(hand, Hearts))
	assert.False(t, HasBeloteRebelote(hand, Spades))
	assert.False(t, HasBeloteRebelote([]Card{card(Hearts, King), card(Spades, Queen)}, Hearts))
}

func TestComputeHandResult_RawPointsTotal162(t *testing.T) {
	for name, tricks := range map[string][]Trick{"capot": capotTricks(), "split": splitTricks()} {
		res, err := ComputeHandResult(tricks, heartsContract(80, 0, 0, 1), NoTeam)
		require.NoError(t, err, name)
		assert.Equal(t, TotalCardPoints+DixDeDerBonus, res.TeamPoints[0]+res.TeamPoints[1], name)
	}
}

func TestComputeHandResult_ContractMadeKeepsRawPoints(t *testing.T) {
	res, err := ComputeHandResult(splitTricks(), heartsContract(100, 0, 0, 1), NoTeam)
	require.NoError(t, err)

	assert.True(t, res.ContractMade)
	assert.False(t, res.Capot)
	assert.Equal(t, [2]int{114, 48}, res.TeamPoints)
	assert.Equal(t, [2]int{6, 2}, res.TricksWon)
	assert.Equal(t, 1, res.LastTrickTeam)
	assert.Equal(t, [2]int{114, 48}, res.Deltas)
}

func TestComputeHandResult_Chute(t *testing.T) {
	res, err := ComputeHandResult(splitTricks(), heartsContract(150, 0, 0, 1), NoTeam)
	require.NoError(t, err)

	assert.False(t, res.ContractMade)
	assert.Equal(t, [2]int{0, 312}, res.Deltas, "defenders take 162 + contract")
}

func TestComputeHandResult_CoincheChute(t *testing.T) {
	// Team 1 attacked with 80 coinched and only took 48 raw points.
	res, err := ComputeHandResult(splitTricks(), heartsContract(80, 1, 1, 2), NoTeam)
	require.NoError(t, err)

	assert.False(t, res.ContractMade)
	assert.Equal(t, [2]int{484, 0}, res.Deltas)
}

func TestComputeHandResult_CoincheMade(t *testing.T) {
	res, err := ComputeHandResult(splitTricks(), heartsContract(80, 0, 0, 2), NoTeam)
	require.NoError(t, err)

	assert.True(t, res.ContractMade)
	assert.Equal(t, [2]int{160, 0}, res.Deltas, "multiplied contract replaces raw points")
}

func TestComputeHandResult_CapotByAttacker(t *testing.T) {
	res, err := ComputeHandResult(capotTricks(), heartsContract(160, 0, 0, 1), NoTeam)
	require.NoError(t, err)

	assert.True(t, res.Capot)
	assert.Equal(t, 0, res.CapotTeam)
	assert.True(t, res.ContractMade)
	assert.Equal(t, [2]int{250, 0}, res.Deltas)

	surcoinched, err := ComputeHandResult(capotTricks(), heartsContract(160, 0, 0, 4), NoTeam)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1000, 0}, surcoinched.Deltas)
}

func TestComputeHandResult_CapotKeepsHigherContract(t *testing.T) {
	res, err := ComputeHandResult(capotTricks(), heartsContract(250, 0, 0, 1), NoTeam)
	require.NoError(t, err)
	assert.Equal(t, [2]int{250, 0}, res.Deltas)
}

func TestComputeHandResult_CapotByDefender(t *testing.T) {
	// Team 1 attacked and lost every trick.
	res, err := ComputeHandResult(capotTricks(), heartsContract(80, 1, 1, 1), NoTeam)
	require.NoError(t, err)

	assert.True(t, res.Capot)
	assert.Equal(t, 0, res.CapotTeam)
	assert.False(t, res.ContractMade)
	assert.Equal(t, [2]int{242, 0}, res.Deltas)
}

func TestComputeHandResult_BeloteAlwaysPays(t *testing.T) {
	// Chute for team 0, who still hold belote-rebelote.
	res, err := ComputeHandResult(splitTricks(), heartsContract(150, 0, 0, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{20, 312}, res.Deltas)

	// And on a win it stacks on top of the raw points.
	made, err := ComputeHandResult(splitTricks(), heartsContract(100, 0, 0, 1), 1)
	require.NoError(t, err)
	assert.Equal(t, [2]int{114, 68}, made.Deltas)
}

func TestComputeHandResult_RequiresEightTricks(t *testing.T) {
	_, err := ComputeHandResult(capotTricks()[:7], heartsContract(80, 0, 0, 1), NoTeam)
	assert.ErrorIs(t, err, ErrWrongTrickCount)
}
