// Package hub owns the set of running rooms. It is itself an actor so room
// creation, lookup and removal are serialized without locks.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/engine"
	"github.com/beloteio/belote-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Game  *engine.Game
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// GetRoomByUser finds the room a seated user belongs to, for reconnects.
type GetRoomByUser struct {
	UserID string
	Reply  chan *room.Room
}

type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()    {}
func (GetRoom) isHubMsg()       {}
func (GetRoomByUser) isHubMsg() {}
func (RemoveRoom) isHubMsg()    {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	rooms    map[string]*room.Room
	byUser   map[string]string // userID -> room ID
	botDelay time.Duration
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, botDelay time.Duration, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		rooms:    make(map[string]*room.Room),
		byUser:   make(map[string]string),
		botDelay: botDelay,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if r := h.rooms[msg.Game.ID]; r != nil {
					msg.Reply <- r
					break
				}
				r := room.NewRoom(h.ctx, msg.Game, h.botDelay, h.log)
				h.rooms[msg.Game.ID] = r
				for _, p := range msg.Game.Players {
					if !p.IsBot {
						h.byUser[p.ID] = msg.Game.ID
					}
				}
				h.log.Info("room created", zap.String("gameId", msg.Game.ID), zap.Int("rooms", len(h.rooms)))
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case GetRoomByUser:
				msg.Reply <- h.rooms[h.byUser[msg.UserID]] // may be nil

			case RemoveRoom:
				if r := h.rooms[msg.ID]; r != nil {
					r.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.ID)
					for uid, rid := range h.byUser {
						if rid == msg.ID {
							delete(h.byUser, uid)
						}
					}
					h.log.Info("room removed", zap.String("gameId", msg.ID), zap.Int("rooms", len(h.rooms)))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, r := range h.rooms {
		r.Inbox() <- room.Shutdown{}
	}
	clear(h.rooms)
	clear(h.byUser)
	h.cancel()
}
