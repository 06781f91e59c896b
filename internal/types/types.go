// Package types holds the JSON wire messages spoken over the websocket.
package types

import "github.com/beloteio/belote-backend/internal/room"

// Client -> Server message types.
const (
	MsgAuth        = "auth"
	MsgJoinQueue   = "join_queue"
	MsgCancelQueue = "cancel_queue"
	MsgPlaceBid    = "place_bid"
	MsgPassBid     = "pass_bid"
	MsgCoinche     = "coinche"
	MsgSurcoinche  = "surcoinche"
	MsgPlayCard    = "play_card"
	MsgReconnect   = "reconnect"
	MsgPing        = "ping"
	MsgLeaveGame   = "leave_game"
)

// Server -> Client message types.
const (
	MsgAuthOK      = "auth_ok"
	MsgAuthError   = "auth_error"
	MsgQueueJoined = "queue_joined"
	MsgQueueLeft   = "queue_left"
	MsgMatchFound  = "match_found"
	MsgState       = "state"
	MsgPong        = "pong"
	MsgError       = "error"
	MsgLeftGame    = "left_game"
)

// ClientMessage is every message a client may send; Type selects which
// fields are meaningful.
type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`  // auth, reconnect
	Value  int    `json:"value,omitempty"`  // place_bid
	Suit   string `json:"suit,omitempty"`   // place_bid, play_card
	Rank   string `json:"rank,omitempty"`   // play_card
	GameID string `json:"gameId,omitempty"` // reconnect
}

type ServerMessage struct {
	Type     string         `json:"type"`
	UserID   string         `json:"userId,omitempty"`
	Username string         `json:"username,omitempty"`
	GameID   string         `json:"gameId,omitempty"`
	Version  int            `json:"version,omitempty"`
	View     *room.SeatView `json:"view,omitempty"`
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
}
