package room

import "github.com/beloteio/belote-backend/internal/engine"

// SeatPlayer is the public face of a seat: never the cards themselves.
type SeatPlayer struct {
	Username     string `json:"username"`
	Seat         int    `json:"seat"`
	IsBot        bool   `json:"isBot"`
	Disconnected bool   `json:"disconnected"`
	CardCount    int    `json:"cardCount"`
}

type BiddingView struct {
	CurrentBidder int          `json:"currentBidder"`
	HighValue     int          `json:"highValue,omitempty"`
	HighSuit      *engine.Suit `json:"highSuit,omitempty"`
	HighSeat      int          `json:"highSeat"`
	Coinched      bool         `json:"coinched"`
	Surcoinched   bool         `json:"surcoinched"`
}

type ContractView struct {
	Value      int         `json:"value"`
	Suit       engine.Suit `json:"suit"`
	Team       int         `json:"team"`
	BidderSeat int         `json:"bidderSeat"`
	Multiplier int         `json:"multiplier"`
}

// SeatView is everything one seat is allowed to know about the table. Other
// hands appear only as card counts.
type SeatView struct {
	GameID      string              `json:"gameId"`
	Phase       engine.Phase        `json:"phase"`
	Seat        int                 `json:"seat"`
	Hand        []engine.Card       `json:"hand"`
	LegalCards  []engine.Card       `json:"legalCards,omitempty"`
	Players     [4]SeatPlayer       `json:"players"`
	Dealer      int                 `json:"dealer"`
	CurrentSeat int                 `json:"currentSeat"`
	HandNumber  int                 `json:"handNumber"`
	TrickNumber int                 `json:"trickNumber"`
	Trick       []engine.PlayedCard `json:"trick"`
	Bidding     *BiddingView        `json:"bidding,omitempty"`
	Contract    *ContractView       `json:"contract,omitempty"`
	TeamScores  [2]int              `json:"teamScores"`
	LastResult  *engine.HandResult  `json:"lastResult,omitempty"`
	WinnerTeam  *int                `json:"winnerTeam,omitempty"`
}

// buildSeatView redacts the game for one seat. seat may be -1 for a viewer
// without a seat, who then sees no hand at all.
func buildSeatView(g *engine.Game, seat int) SeatView {
	v := SeatView{
		GameID:      g.ID,
		Phase:       g.Phase,
		Seat:        seat,
		Dealer:      g.Dealer,
		CurrentSeat: g.CurrentSeat,
		HandNumber:  g.HandNumber,
		TrickNumber: g.CurrentTrick.Number,
		Trick:       append([]engine.PlayedCard(nil), g.CurrentTrick.Plays...),
		TeamScores:  g.TeamScores,
	}

	for i, p := range g.Players {
		v.Players[i] = SeatPlayer{
			Username:     p.Username,
			Seat:         p.Seat,
			IsBot:        p.IsBot,
			Disconnected: p.Disconnected,
			CardCount:    len(p.Hand),
		}
	}

	if seat >= 0 {
		v.Hand = g.PlayerHand(seat)
		if g.CurrentSeat == seat {
			v.LegalCards = g.LegalCardsFor(seat)
		}
	}

	if g.Phase == engine.PhaseBidding {
		b := &BiddingView{
			CurrentBidder: g.Bidding.CurrentBidder,
			HighSeat:      -1,
			Coinched:      g.Bidding.Status != engine.AuctionOpen,
			Surcoinched:   g.Bidding.Status == engine.AuctionSurcoinched,
		}
		if g.Bidding.High != nil {
			suit := g.Bidding.High.Suit
			b.HighValue = g.Bidding.High.Value
			b.HighSuit = &suit
			b.HighSeat = g.Bidding.High.Seat
		}
		v.Bidding = b
	}

	if g.HasContract {
		v.Contract = &ContractView{
			Value:      g.Contract.Value,
			Suit:       g.Contract.Suit,
			Team:       g.Contract.Team,
			BidderSeat: g.Contract.BidderSeat,
			Multiplier: g.Contract.Multiplier,
		}
	}

	if len(g.Results) > 0 {
		last := g.Results[len(g.Results)-1]
		v.LastResult = &last
	}

	if winner, ok := g.WinningTeam(); ok {
		v.WinnerTeam = &winner
	}

	return v
}
