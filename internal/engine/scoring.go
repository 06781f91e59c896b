package engine

import "errors"

const (
	TotalCardPoints = 152
	DixDeDerBonus   = 10
	BeloteBonus     = 20
	CapotScore      = 250
	TricksPerHand   = 8
)

var ErrWrongTrickCount = errors.New("hand must have exactly 8 tricks")

// NoTeam marks the absence of a team in HandResult fields.
const NoTeam = -1

// HandResult summarizes one scored hand. It is never mutated once computed.
type HandResult struct {
	TeamPoints    [2]int `json:"teamPoints"` // raw card points incl. dix de der
	TricksWon     [2]int `json:"tricksWon"`
	BeloteTeam    int    `json:"beloteTeam"` // NoTeam if nobody held K+Q of trump
	Capot         bool   `json:"capot"`
	CapotTeam     int    `json:"capotTeam"`
	LastTrickTeam int    `json:"lastTrickTeam"`
	ContractMade  bool   `json:"contractMade"`
	Deltas        [2]int `json:"deltas"` // added to the running team totals
}

// HasBeloteRebelote reports whether the hand holds both king and queen of trump.
func HasBeloteRebelote(hand []Card, trump Suit) bool {
	return containsCard(hand, Card{Suit: trump, Rank: King}) &&
		containsCard(hand, Card{Suit: trump, Rank: Queen})
}

// ComputeHandResult scores the eight completed tricks of a hand against the
// contract. beloteTeam is the team holding king+queen of trump, or NoTeam.
func ComputeHandResult(tricks []Trick, contract Contract, beloteTeam int) (HandResult, error) {
	if len(tricks) != TricksPerHand {
		return HandResult{}, ErrWrongTrickCount
	}

	res := HandResult{BeloteTeam: beloteTeam, CapotTeam: NoTeam}
	for _, t := range tricks {
		winner, err := TrickWinner(t, contract.Suit)
		if err != nil {
			return HandResult{}, err
		}
		team := TeamOf(winner)
		res.TeamPoints[team] += TrickPoints(t, contract.Suit)
		res.TricksWon[team]++
	}

	lastWinner, err := TrickWinner(tricks[TricksPerHand-1], contract.Suit)
	if err != nil {
		return HandResult{}, err
	}
	res.LastTrickTeam = TeamOf(lastWinner)
	res.TeamPoints[res.LastTrickTeam] += DixDeDerBonus

	for team, won := range res.TricksWon {
		if won == TricksPerHand {
			res.Capot = true
			res.CapotTeam = team
		}
	}

	attacking := contract.Team
	defending := 1 - attacking

	if res.Capot {
		res.ContractMade = res.CapotTeam == attacking
	} else {
		res.ContractMade = res.TeamPoints[attacking] >= contract.Value
	}

	switch {
	case res.Capot && res.ContractMade:
		base := CapotScore
		if contract.Value > base {
			base = contract.Value
		}
		res.Deltas[attacking] = base * contract.Multiplier

	case res.Capot:
		// Defenders took every trick from the attackers.
		res.Deltas[defending] = (TotalCardPoints + DixDeDerBonus + contract.Value) * contract.Multiplier

	case res.ContractMade && contract.Multiplier == 1:
		res.Deltas[attacking] = res.TeamPoints[attacking]
		res.Deltas[defending] = res.TeamPoints[defending]

	case res.ContractMade:
		// Coinched or surcoinched: raw points are discarded for the
		// multiplied contract value.
		res.Deltas[attacking] = contract.Value * contract.Multiplier

	default:
		// Chute.
		res.Deltas[defending] = (TotalCardPoints + DixDeDerBonus + contract.Value) * contract.Multiplier
	}

	// Belote-rebelote pays out regardless of the contract outcome.
	if beloteTeam != NoTeam {
		res.Deltas[beloteTeam] += BeloteBonus
	}

	return res, nil
}
