// Package room runs one table as an actor: a single goroutine owns the Game,
// receives typed messages, and pushes versioned per-seat snapshots to
// connected clients. Seats without a live human (bots, disconnects) are played
// by the bot package on a timer.
package room

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/bot"
	"github.com/beloteio/belote-backend/internal/engine"
)

var ErrNotSeated = errors.New("user has no seat in this game")

type Msg interface{ isRoomMsg() }

type Join struct {
	UserID string
	Outbox chan Snapshot // where this client wants to receive snapshots
}

func (Join) isRoomMsg() {}

type Leave struct{ UserID string }

func (Leave) isRoomMsg() {}

type PlaceBid struct {
	UserID string
	Bid    engine.Bid
	Err    chan error // buffered by the caller
}

func (PlaceBid) isRoomMsg() {}

type PlayCard struct {
	UserID string
	Card   engine.Card
	Err    chan error
}

func (PlayCard) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

// botTurn fires after the bot delay; Gen guards against stale timers.
type botTurn struct{ Gen int }

func (botTurn) isRoomMsg() {}

type Snapshot struct {
	Version int      `json:"version"`
	View    SeatView `json:"view"`
}

// View reflects internal state without data races; tests and admin endpoints
// read it through GetView.
type View struct {
	Version     int
	NumClients  int
	Phase       engine.Phase
	CurrentSeat int
	HandNumber  int
	TeamScores  [2]int
	Finished    bool
}

type Room struct {
	ID      string
	inbox   chan Msg
	game    *engine.Game
	version int
	clients map[string]chan Snapshot

	botDelay time.Duration
	botGen   int

	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRoom starts the actor. The game is dealt and bidding opened before the
// first client joins, so every snapshot already carries a live hand.
func NewRoom(parent context.Context, game *engine.Game, botDelay time.Duration, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		ID:       game.ID,
		inbox:    make(chan Msg, 64),
		game:     game,
		clients:  make(map[string]chan Snapshot),
		botDelay: botDelay,
		log:      log.With(zap.String("gameId", game.ID)),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	if game.Phase == engine.PhaseWaiting {
		if _, err := game.StartGame(); err != nil {
			r.log.Error("start failed", zap.Error(err))
		}
	}

	r.scheduleBot()
	go r.loop()
	return r
}

// Inbox is where the WS layer and tests send messages.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down.
func (r *Room) Done() <-chan struct{} { return r.done }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				r.handleLeave(msg.UserID)

			case PlaceBid:
				err := r.fromSeat(msg.UserID, func(seat int) error {
					_, e := r.game.HandleBid(seat, msg.Bid)
					return e
				})
				reply(msg.Err, err)
				if err == nil {
					r.afterMove()
				}

			case PlayCard:
				err := r.fromSeat(msg.UserID, func(seat int) error {
					_, e := r.game.HandlePlayCard(seat, msg.Card)
					return e
				})
				reply(msg.Err, err)
				if err == nil {
					r.afterMove()
				}

			case botTurn:
				r.handleBotTurn(msg.Gen)

			case GetView:
				msg.Reply <- View{
					Version:     r.version,
					NumClients:  len(r.clients),
					Phase:       r.game.Phase,
					CurrentSeat: r.game.CurrentSeat,
					HandNumber:  r.game.HandNumber,
					TeamScores:  r.game.TeamScores,
					Finished:    r.game.Over(),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if seat, ok := r.game.SeatOf(msg.UserID); ok && r.game.Players[seat].Disconnected {
		r.game.Players[seat].Disconnected = false
		r.log.Info("player reconnected", zap.Int("seat", seat))
	}
	r.clients[msg.UserID] = msg.Outbox
	msg.Outbox <- r.snapshotFor(msg.UserID)
}

func (r *Room) handleLeave(userID string) {
	delete(r.clients, userID)
	if seat, ok := r.game.SeatOf(userID); ok && !r.game.Players[seat].IsBot {
		r.game.Players[seat].Disconnected = true
		r.log.Info("player disconnected", zap.Int("seat", seat))
		r.version++
		r.broadcast()
		r.scheduleBot()
	}
}

func (r *Room) fromSeat(userID string, apply func(seat int) error) error {
	seat, ok := r.game.SeatOf(userID)
	if !ok {
		return ErrNotSeated
	}
	return apply(seat)
}

// afterMove runs after every accepted state change.
func (r *Room) afterMove() {
	r.version++
	r.broadcast()
	if r.game.Over() {
		winner, _ := r.game.WinningTeam()
		r.log.Info("game finished",
			zap.Int("winnerTeam", winner),
			zap.Ints("scores", r.game.TeamScores[:]))
		return
	}
	r.scheduleBot()
}

// scheduleBot arms a timer when the seat to act has no live human behind it.
// Bumping the generation invalidates any timer already in flight.
func (r *Room) scheduleBot() {
	if r.game.Over() {
		return
	}
	p := r.game.Players[r.game.CurrentSeat]
	if !p.IsBot && !p.Disconnected {
		return
	}
	r.botGen++
	gen := r.botGen
	go func() {
		t := time.NewTimer(r.botDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.ctx.Done():
			return
		}
		select {
		case r.inbox <- botTurn{Gen: gen}:
		case <-r.ctx.Done():
		}
	}()
}

func (r *Room) handleBotTurn(gen int) {
	if gen != r.botGen || r.game.Over() {
		return
	}
	seat := r.game.CurrentSeat
	p := r.game.Players[seat]
	if !p.IsBot && !p.Disconnected {
		// A human reconnected before the timer fired.
		return
	}

	var err error
	switch r.game.Phase {
	case engine.PhaseBidding:
		bid := bot.DecideBid(r.game.PlayerHand(seat), r.game.Bidding, seat)
		_, err = r.game.HandleBid(seat, bid)
	case engine.PhasePlaying:
		card := bot.DecideCard(r.game.PlayerHand(seat), r.game.CurrentTrick, r.game.Contract.Suit, seat)
		_, err = r.game.HandlePlayCard(seat, card)
	default:
		return
	}
	if err != nil {
		r.log.Error("bot move rejected", zap.Int("seat", seat), zap.Error(err))
		return
	}
	r.afterMove()
}

func (r *Room) snapshotFor(userID string) Snapshot {
	seat, ok := r.game.SeatOf(userID)
	if !ok {
		seat = -1
	}
	return Snapshot{Version: r.version, View: buildSeatView(r.game, seat)}
}

func (r *Room) broadcast() {
	for id, ch := range r.clients {
		select {
		case ch <- r.snapshotFor(id):
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
			if seat, ok := r.game.SeatOf(id); ok && !r.game.Players[seat].IsBot {
				r.game.Players[seat].Disconnected = true
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
	close(r.done)
}

func reply(ch chan error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
