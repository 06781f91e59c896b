// Package ws bridges websocket connections to the hub, the rooms and the
// matchmaking queue. A connection must authenticate with a session token
// before anything else; after that it is keyed by user id, so a second
// connection from the same user replaces the first.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/auth"
	"github.com/beloteio/belote-backend/internal/engine"
	"github.com/beloteio/belote-backend/internal/hub"
	"github.com/beloteio/belote-backend/internal/matchmaking"
	"github.com/beloteio/belote-backend/internal/room"
	"github.com/beloteio/belote-backend/internal/types"
)

const (
	authTimeout  = 5 * time.Second
	writeTimeout = 3 * time.Second
)

type Server struct {
	hub    *hub.Hub
	queue  *matchmaking.Queue
	tokens *auth.Service
	log    *zap.Logger

	mu      sync.Mutex
	clients map[string]*client // userID -> active connection
}

func NewServer(h *hub.Hub, queue *matchmaking.Queue, tokens *auth.Service, log *zap.Logger) *Server {
	return &Server{
		hub:     h,
		queue:   queue,
		tokens:  tokens,
		log:     log,
		clients: make(map[string]*client),
	}
}

type client struct {
	userID   string
	username string
	conn     *websocket.Conn
	ctx      context.Context
	cancel   context.CancelFunc

	mu   sync.Mutex
	room *room.Room
}

func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c, ok := s.authenticate(ctx, conn)
		if !ok {
			return
		}
		c.ctx, c.cancel = ctx, cancel

		s.register(c)
		defer s.drop(c)

		s.send(ctx, conn, types.ServerMessage{Type: types.MsgAuthOK, UserID: c.userID, Username: c.username})

		// A seated user picks their game back up immediately.
		if rm := s.roomByUser(c.userID); rm != nil {
			s.attach(c, rm)
		}

		s.readLoop(c)
	}
}

// authenticate requires the first message to be a valid auth within the
// timeout.
func (s *Server) authenticate(ctx context.Context, conn *websocket.Conn) (*client, bool) {
	authCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	_, data, err := conn.Read(authCtx)
	if err != nil {
		return nil, false
	}

	var cm types.ClientMessage
	if err := json.Unmarshal(data, &cm); err != nil || cm.Type != types.MsgAuth {
		s.send(ctx, conn, types.ServerMessage{Type: types.MsgAuthError, Message: "must authenticate first"})
		return nil, false
	}

	claims, err := s.tokens.VerifyToken(cm.Token)
	if err != nil {
		s.send(ctx, conn, types.ServerMessage{Type: types.MsgAuthError, Message: "invalid token"})
		return nil, false
	}

	return &client{
		userID:   claims.UserID,
		username: claims.Username,
		conn:     conn,
	}, true
}

func (s *Server) readLoop(c *client) {
	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if c.ctx.Err() == nil {
					s.log.Debug("websocket read failed", zap.String("userId", c.userID), zap.Error(err))
				}
			}
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			s.sendError(c, "INVALID_MESSAGE", "bad json")
			continue
		}
		s.dispatch(c, cm)
	}
}

func (s *Server) dispatch(c *client, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgPing:
		s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgPong})

	case types.MsgJoinQueue:
		if s.currentRoom(c) != nil {
			s.sendError(c, "ALREADY_IN_GAME", "finish the current game first")
			return
		}
		err := s.queue.Add(c.ctx, matchmaking.QueuedPlayer{UserID: c.userID, Username: c.username})
		if err != nil {
			s.log.Error("queue add failed", zap.String("userId", c.userID), zap.Error(err))
			s.sendError(c, "QUEUE_FAILED", "could not join queue")
			return
		}
		s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgQueueJoined})

	case types.MsgCancelQueue:
		if err := s.queue.Remove(c.ctx, c.userID); err != nil {
			s.log.Error("queue remove failed", zap.String("userId", c.userID), zap.Error(err))
		}
		s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgQueueLeft})

	case types.MsgPlaceBid:
		suit, ok := engine.ParseSuit(cm.Suit)
		if !ok {
			s.sendError(c, "INVALID_MESSAGE", "unknown suit")
			return
		}
		s.roomMove(c, func(r *room.Room, errCh chan error) {
			r.Inbox() <- room.PlaceBid{
				UserID: c.userID,
				Bid:    engine.Bid{Kind: engine.BidNumeric, Value: cm.Value, Suit: suit},
				Err:    errCh,
			}
		})

	case types.MsgPassBid:
		s.sendBidKind(c, engine.BidPass)
	case types.MsgCoinche:
		s.sendBidKind(c, engine.BidCoinche)
	case types.MsgSurcoinche:
		s.sendBidKind(c, engine.BidSurcoinche)

	case types.MsgPlayCard:
		suit, okS := engine.ParseSuit(cm.Suit)
		rank, okR := engine.ParseRank(cm.Rank)
		if !okS || !okR {
			s.sendError(c, "INVALID_MESSAGE", "unknown card")
			return
		}
		s.roomMove(c, func(r *room.Room, errCh chan error) {
			r.Inbox() <- room.PlayCard{
				UserID: c.userID,
				Card:   engine.Card{Suit: suit, Rank: rank},
				Err:    errCh,
			}
		})

	case types.MsgReconnect:
		if r := s.roomByUser(c.userID); r != nil {
			s.attach(c, r)
			return
		}
		s.sendError(c, "NOT_IN_GAME", "no game to reconnect to")

	case types.MsgLeaveGame:
		s.detach(c)
		s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgLeftGame})

	default:
		s.sendError(c, "INVALID_MESSAGE", "unknown type")
	}
}

func (s *Server) sendBidKind(c *client, kind engine.BidKind) {
	s.roomMove(c, func(r *room.Room, errCh chan error) {
		r.Inbox() <- room.PlaceBid{UserID: c.userID, Bid: engine.Bid{Kind: kind}, Err: errCh}
	})
}

// roomMove sends one move to the client's room and relays a rejection back.
func (s *Server) roomMove(c *client, send func(r *room.Room, errCh chan error)) {
	r := s.currentRoom(c)
	if r == nil {
		s.sendError(c, "NOT_IN_GAME", "join a game first")
		return
	}

	errCh := make(chan error, 1)
	send(r, errCh)
	select {
	case err := <-errCh:
		if err != nil {
			s.sendError(c, "ILLEGAL_MOVE", err.Error())
		}
	case <-time.After(writeTimeout):
		s.sendError(c, "INTERNAL", "room did not answer")
	case <-c.ctx.Done():
	}
}

// MatchFound attaches a queued player's live connection to their new room.
func (s *Server) MatchFound(userID string, r *room.Room) {
	s.mu.Lock()
	c := s.clients[userID]
	s.mu.Unlock()
	if c == nil {
		// Offline; the room marks the seat disconnected when it never joins.
		return
	}
	s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgMatchFound, GameID: r.ID})
	s.attach(c, r)
}

func (s *Server) roomByUser(userID string) *room.Room {
	reply := make(chan *room.Room, 1)
	s.hub.Inbox() <- hub.GetRoomByUser{UserID: userID, Reply: reply}
	return <-reply
}

func (s *Server) currentRoom(c *client) *room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// attach joins the room and pumps its snapshots to the socket until the
// connection or the room goes away.
func (s *Server) attach(c *client, r *room.Room) {
	c.mu.Lock()
	if c.room == r {
		c.mu.Unlock()
		return
	}
	c.room = r
	c.mu.Unlock()

	out := make(chan room.Snapshot, 16)
	r.Inbox() <- room.Join{UserID: c.userID, Outbox: out}

	go func() {
		for {
			select {
			case snap, ok := <-out:
				if !ok {
					return
				}
				view := snap.View
				s.send(c.ctx, c.conn, types.ServerMessage{
					Type:    types.MsgState,
					GameID:  view.GameID,
					Version: snap.Version,
					View:    &view,
				})
			case <-c.ctx.Done():
				return
			}
		}
	}()
}

func (s *Server) detach(c *client) {
	c.mu.Lock()
	r := c.room
	c.room = nil
	c.mu.Unlock()
	if r != nil {
		r.Inbox() <- room.Leave{UserID: c.userID}
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	existing := s.clients[c.userID]
	s.clients[c.userID] = c
	s.mu.Unlock()

	if existing != nil {
		existing.cancel()
		existing.conn.Close(websocket.StatusPolicyViolation, "replaced by a new connection")
	}
}

// drop tears a connection down: the seat goes to a bot, the queue entry dies.
func (s *Server) drop(c *client) {
	s.mu.Lock()
	if s.clients[c.userID] == c {
		delete(s.clients, c.userID)
	}
	s.mu.Unlock()

	s.detach(c)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.queue.Remove(ctx, c.userID); err != nil {
		s.log.Debug("queue cleanup failed", zap.String("userId", c.userID), zap.Error(err))
	}
}

func (s *Server) sendError(c *client, code, message string) {
	s.send(c.ctx, c.conn, types.ServerMessage{Type: types.MsgError, Code: code, Message: message})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
