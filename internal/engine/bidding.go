package engine

const (
	MinBid  = 80
	MaxBid  = 250
	BidStep = 10
)

// BidKind discriminates the four auction moves.
type BidKind int

const (
	BidNumeric BidKind = iota
	BidPass
	BidCoinche
	BidSurcoinche
)

// Bid is one auction move. Value and Suit are meaningful only for BidNumeric.
type Bid struct {
	Kind  BidKind
	Value int
	Suit  Suit
}

// BidEntry records who made a bid, in auction order.
type BidEntry struct {
	Seat int
	Bid  Bid
}

// AuctionStatus is the coinche sub-state of the auction. Modelling it as a
// three-valued enum keeps coinched+surcoinched-without-coinche unrepresentable.
type AuctionStatus int

const (
	AuctionOpen AuctionStatus = iota
	AuctionCoinched
	AuctionSurcoinched
)

// HighBid is the current highest numeric bid.
type HighBid struct {
	Value int
	Suit  Suit
	Seat  int
}

// BiddingState tracks one hand's auction. It is a value: PlaceBid returns a
// new state and never mutates its input.
type BiddingState struct {
	Bids              []BidEntry
	CurrentBidder     int
	High              *HighBid
	ConsecutivePasses int
	Status            AuctionStatus
	CoinchedBy        int
	Done              bool
}

// Contract is the outcome of a finished auction with at least one numeric bid.
type Contract struct {
	Value      int
	Suit       Suit
	Team       int
	BidderSeat int
	Multiplier int
}

// NewBiddingState starts an auction with the seat left of the dealer.
func NewBiddingState(dealer int) BiddingState {
	return BiddingState{
		CurrentBidder: (dealer + 1) % 4,
		CoinchedBy:    -1,
	}
}

// IsValidBid reports whether seat may make the given bid now.
func IsValidBid(s BiddingState, seat int, bid Bid) bool {
	if s.Done {
		return false
	}
	if s.CurrentBidder != seat {
		return false
	}

	switch bid.Kind {
	case BidPass:
		return true

	case BidCoinche:
		// Only the defending team may coinche, once.
		if s.High == nil || s.Status != AuctionOpen {
			return false
		}
		return TeamOf(seat) != TeamOf(s.High.Seat)

	case BidSurcoinche:
		// Only the attacking team may surcoinche, and only over a coinche.
		if s.Status != AuctionCoinched {
			return false
		}
		return TeamOf(seat) == TeamOf(s.High.Seat)

	case BidNumeric:
		if bid.Value < MinBid || bid.Value > MaxBid || bid.Value%BidStep != 0 {
			return false
		}
		if s.High != nil && bid.Value <= s.High.Value {
			return false
		}
		// A coinche freezes numeric bidding; only surcoinche or pass may follow.
		return s.Status == AuctionOpen

	default:
		return false
	}
}

// PlaceBid applies a bid already validated by IsValidBid and returns the new
// auction state.
func PlaceBid(s BiddingState, seat int, bid Bid) BiddingState {
	next := s
	next.Bids = append(append([]BidEntry(nil), s.Bids...), BidEntry{Seat: seat, Bid: bid})

	switch bid.Kind {
	case BidPass:
		next.ConsecutivePasses++

		if s.Status == AuctionCoinched {
			// The attacking team's one chance to surcoinche: passing on it
			// closes the auction.
			if TeamOf(seat) == TeamOf(s.High.Seat) {
				next.Done = true
				return next
			}
		}
		if next.ConsecutivePasses >= 3 && s.High != nil {
			next.Done = true
			return next
		}
		if next.ConsecutivePasses >= 4 && s.High == nil {
			next.Done = true
			return next
		}

	case BidCoinche:
		next.Status = AuctionCoinched
		next.CoinchedBy = seat
		next.ConsecutivePasses = 0
		// Route the turn to the nearest attacking-team seat so that team
		// gets the surcoinche opportunity.
		attacking := TeamOf(s.High.Seat)
		bidder := (seat + 1) % 4
		for TeamOf(bidder) != attacking {
			bidder = (bidder + 1) % 4
		}
		next.CurrentBidder = bidder
		return next

	case BidSurcoinche:
		next.Status = AuctionSurcoinched
		next.Done = true
		return next

	case BidNumeric:
		next.High = &HighBid{Value: bid.Value, Suit: bid.Suit, Seat: seat}
		next.ConsecutivePasses = 0
		next.Status = AuctionOpen
		next.CoinchedBy = -1
	}

	next.CurrentBidder = (seat + 1) % 4
	return next
}

// GetContract returns the contract of a finished auction, or false when the
// auction is still open or everyone passed.
func GetContract(s BiddingState) (Contract, bool) {
	if !s.Done || s.High == nil {
		return Contract{}, false
	}
	multiplier := 1
	switch s.Status {
	case AuctionCoinched:
		multiplier = 2
	case AuctionSurcoinched:
		multiplier = 4
	}
	return Contract{
		Value:      s.High.Value,
		Suit:       s.High.Suit,
		Team:       TeamOf(s.High.Seat),
		BidderSeat: s.High.Seat,
		Multiplier: multiplier,
	}, true
}

// AllPassed reports whether the auction finished without a single numeric bid.
func AllPassed(s BiddingState) bool {
	return s.Done && s.High == nil
}
