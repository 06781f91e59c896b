package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DefaultWinningScore is the classic Contrée game target.
const DefaultWinningScore = 1501

var (
	ErrPlayerCount = errors.New("game requires exactly 4 players")
	ErrWrongPhase  = errors.New("move not allowed in current phase")
	ErrWrongTurn   = errors.New("not this seat's turn")
	ErrInvalidBid  = errors.New("invalid bid")
	ErrIllegalCard = errors.New("card is not a legal play")
)

// Phase is the hand lifecycle state.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseBidding  Phase = "bidding"
	PhasePlaying  Phase = "playing"
	PhaseScoring  Phase = "scoring"
	PhaseFinished Phase = "finished"
)

// Player occupies one seat. The engine treats every seat uniformly; IsBot and
// Disconnected exist only so callers can decide who acts for the seat.
type Player struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Seat         int    `json:"seat"`
	IsBot        bool   `json:"isBot"`
	Disconnected bool   `json:"disconnected"`
	Hand         []Card `json:"-"`
}

// EventType names the domain events emitted by Game mutators.
type EventType string

const (
	EvtNewHand     EventType = "new_hand"
	EvtDeal        EventType = "deal"
	EvtBiddingTurn EventType = "bidding_turn"
	EvtBidPlaced   EventType = "bid_placed"
	EvtBidPassed   EventType = "bid_passed"
	EvtCoinched    EventType = "coinched"
	EvtSurcoinched EventType = "surcoinched"
	EvtAllPassed   EventType = "all_passed"
	EvtContractSet EventType = "contract_set"
	EvtBelote      EventType = "belote_declared"
	EvtRebelote    EventType = "rebelote_declared"
	EvtCardPlayed  EventType = "card_played"
	EvtPlayTurn    EventType = "play_turn"
	EvtTrickWon    EventType = "trick_won"
	EvtHandResult  EventType = "hand_result"
	EvtGameOver    EventType = "game_over"
)

// Event is one entry of the ordered event log a mutator returns. Only the
// fields relevant to the Type are set.
type Event struct {
	Type       EventType
	Seat       int
	Bid        Bid
	Card       Card
	Contract   Contract
	Result     HandResult
	Trick      Trick
	LegalCards []Card
	HandNumber int
	Dealer     int
	WinnerTeam int
	TeamScores [2]int
}

// dealHands is swapped out by tests that need fixed hands.
var dealHands = func(rng *rand.Rand) [4][]Card { return ShuffleDeal(rng) }

// Game is the single-writer aggregate for one table. It performs no I/O and
// holds no locks; callers must serialize access (one actor per game).
type Game struct {
	ID           string
	Players      [4]*Player
	TeamScores   [2]int
	Dealer       int
	Phase        Phase
	HandNumber   int
	Bidding      BiddingState
	Contract     Contract
	HasContract  bool
	Tricks       []Trick
	CurrentTrick Trick
	CurrentSeat  int
	BeloteTeam   int // NoTeam until the contract reveals a K+Q holder
	BeloteShown  bool
	Results      []HandResult
	WinningScore int

	rng *rand.Rand
}

// NewGame seats the given players in order. winningScore <= 0 selects the
// default target; rng may be nil outside tests.
func NewGame(players []Player, winningScore int, rng *rand.Rand) (*Game, error) {
	if len(players) != 4 {
		return nil, ErrPlayerCount
	}
	if winningScore <= 0 {
		winningScore = DefaultWinningScore
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		ID:           uuid.NewString(),
		Phase:        PhaseWaiting,
		BeloteTeam:   NoTeam,
		WinningScore: winningScore,
		rng:          rng,
	}
	for i := range players {
		p := players[i]
		p.Seat = i
		g.Players[i] = &p
	}
	g.Dealer = rng.Intn(4)
	return g, nil
}

// StartGame deals the first hand and opens bidding.
func (g *Game) StartGame() ([]Event, error) {
	if g.Phase != PhaseWaiting {
		return nil, ErrWrongPhase
	}
	return g.startNewHand(true), nil
}

func (g *Game) startNewHand(countHand bool) []Event {
	if countHand {
		g.HandNumber++
	}
	g.HasContract = false
	g.Contract = Contract{}
	g.Tricks = nil
	g.CurrentTrick = Trick{}
	g.BeloteTeam = NoTeam
	g.BeloteShown = false

	hands := dealHands(g.rng)
	for i, p := range g.Players {
		p.Hand = hands[i]
	}

	g.Phase = PhaseBidding
	g.Bidding = NewBiddingState(g.Dealer)
	g.CurrentSeat = g.Bidding.CurrentBidder

	return []Event{
		{Type: EvtNewHand, HandNumber: g.HandNumber, Dealer: g.Dealer},
		{Type: EvtDeal},
		{Type: EvtBiddingTurn, Seat: g.CurrentSeat},
	}
}

// HandleBid applies one auction move. On failure the game is unchanged and
// the error names the reason.
func (g *Game) HandleBid(seat int, bid Bid) ([]Event, error) {
	if g.Phase != PhaseBidding {
		return nil, ErrWrongPhase
	}
	if g.Bidding.CurrentBidder != seat {
		return nil, ErrWrongTurn
	}
	if !IsValidBid(g.Bidding, seat, bid) {
		return nil, ErrInvalidBid
	}

	g.Bidding = PlaceBid(g.Bidding, seat, bid)

	var events []Event
	switch bid.Kind {
	case BidPass:
		events = append(events, Event{Type: EvtBidPassed, Seat: seat})
	case BidCoinche:
		events = append(events, Event{Type: EvtCoinched, Seat: seat})
	case BidSurcoinche:
		events = append(events, Event{Type: EvtSurcoinched, Seat: seat})
	default:
		events = append(events, Event{Type: EvtBidPlaced, Seat: seat, Bid: bid})
	}

	if !g.Bidding.Done {
		g.CurrentSeat = g.Bidding.CurrentBidder
		return append(events, Event{Type: EvtBiddingTurn, Seat: g.CurrentSeat}), nil
	}

	if AllPassed(g.Bidding) {
		// Nobody wanted the hand: rotate the dealer and redeal without
		// counting the hand.
		events = append(events, Event{Type: EvtAllPassed})
		g.Dealer = (g.Dealer + 1) % 4
		return append(events, g.startNewHand(false)...), nil
	}

	contract, _ := GetContract(g.Bidding)
	g.Contract = contract
	g.HasContract = true
	events = append(events, Event{Type: EvtContractSet, Contract: contract})

	// A single hand can hold king+queen of trump; find its team now so the
	// declaration can be announced as the cards hit the table.
	for _, p := range g.Players {
		if HasBeloteRebelote(p.Hand, contract.Suit) {
			g.BeloteTeam = TeamOf(p.Seat)
			break
		}
	}

	g.Phase = PhasePlaying
	g.CurrentSeat = (g.Dealer + 1) % 4
	g.CurrentTrick = NewTrick(1)
	events = append(events, g.playTurnEvent())
	return events, nil
}

func (g *Game) playTurnEvent() Event {
	return Event{Type: EvtPlayTurn, Seat: g.CurrentSeat, LegalCards: g.LegalCardsFor(g.CurrentSeat)}
}

// LegalCardsFor returns the legal plays for seat, or nil outside the playing
// phase.
func (g *Game) LegalCardsFor(seat int) []Card {
	if g.Phase != PhasePlaying || !g.HasContract {
		return nil
	}
	return LegalCards(g.Players[seat].Hand, g.CurrentTrick, g.Contract.Suit, seat)
}

// HandlePlayCard plays one card for seat. On failure the game is unchanged.
func (g *Game) HandlePlayCard(seat int, card Card) ([]Event, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	if g.CurrentSeat != seat {
		return nil, ErrWrongTurn
	}
	if !containsCard(g.LegalCardsFor(seat), card) {
		return nil, ErrIllegalCard
	}

	hand, _ := removeCard(g.Players[seat].Hand, card)
	g.Players[seat].Hand = hand
	g.CurrentTrick = PlayToTrick(g.CurrentTrick, seat, card)

	var events []Event

	// Belote / rebelote: king and queen of trump from the holding team.
	if g.BeloteTeam == TeamOf(seat) && card.Suit == g.Contract.Suit &&
		(card.Rank == King || card.Rank == Queen) {
		if !g.BeloteShown {
			g.BeloteShown = true
			events = append(events, Event{Type: EvtBelote, Seat: seat})
		} else {
			events = append(events, Event{Type: EvtRebelote, Seat: seat})
		}
	}

	events = append(events, Event{Type: EvtCardPlayed, Seat: seat, Card: card})

	if g.CurrentTrick.Complete() {
		resolved, err := g.resolveTrick()
		if err != nil {
			return nil, err
		}
		return append(events, resolved...), nil
	}

	g.CurrentSeat = (seat + 1) % 4
	return append(events, g.playTurnEvent()), nil
}

func (g *Game) resolveTrick() ([]Event, error) {
	trick := g.CurrentTrick
	winner, err := TrickWinner(trick, g.Contract.Suit)
	if err != nil {
		return nil, err
	}
	g.Tricks = append(g.Tricks, trick)

	events := []Event{{
		Type:       EvtTrickWon,
		Seat:       winner,
		WinnerTeam: TeamOf(winner),
		Trick:      trick,
	}}

	if len(g.Tricks) == TricksPerHand {
		resolved, err := g.resolveHand()
		if err != nil {
			return nil, err
		}
		return append(events, resolved...), nil
	}

	g.CurrentTrick = NewTrick(len(g.Tricks) + 1)
	g.CurrentSeat = winner
	return append(events, g.playTurnEvent()), nil
}

func (g *Game) resolveHand() ([]Event, error) {
	g.Phase = PhaseScoring

	result, err := ComputeHandResult(g.Tricks, g.Contract, g.BeloteTeam)
	if err != nil {
		return nil, err
	}
	g.TeamScores[0] += result.Deltas[0]
	g.TeamScores[1] += result.Deltas[1]
	g.Results = append(g.Results, result)

	events := []Event{{
		Type:       EvtHandResult,
		Result:     result,
		Contract:   g.Contract,
		TeamScores: g.TeamScores,
	}}

	if g.TeamScores[0] >= g.WinningScore || g.TeamScores[1] >= g.WinningScore {
		g.Phase = PhaseFinished
		winner := 0
		if g.TeamScores[1] > g.TeamScores[0] {
			winner = 1
		}
		return append(events, Event{
			Type:       EvtGameOver,
			WinnerTeam: winner,
			TeamScores: g.TeamScores,
			HandNumber: g.HandNumber,
		}), nil
	}

	g.Dealer = (g.Dealer + 1) % 4
	return append(events, g.startNewHand(true)...), nil
}

// Over reports whether the game has finished.
func (g *Game) Over() bool { return g.Phase == PhaseFinished }

// WinningTeam returns the winner of a finished game.
func (g *Game) WinningTeam() (int, bool) {
	if !g.Over() {
		return 0, false
	}
	if g.TeamScores[1] > g.TeamScores[0] {
		return 1, true
	}
	return 0, true
}

// PlayerHand returns a copy of the seat's current hand.
func (g *Game) PlayerHand(seat int) []Card {
	return append([]Card(nil), g.Players[seat].Hand...)
}

// SeatOf returns the seat of the player with the given id.
func (g *Game) SeatOf(playerID string) (int, bool) {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p.Seat, true
		}
	}
	return 0, false
}
