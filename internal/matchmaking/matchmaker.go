package matchmaking

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/engine"
	"github.com/beloteio/belote-backend/internal/hub"
	"github.com/beloteio/belote-backend/internal/room"
)

const playersPerGame = 4

var botNames = [...]string{"Bot Alice", "Bot Bob", "Bot Charlie", "Bot Diana"}

// Notifier is told which room each matched player landed in. The WS layer
// implements it to push match_found to connected clients.
type Notifier interface {
	MatchFound(userID string, r *room.Room)
}

type Matchmaker struct {
	queue        *Queue
	hub          *hub.Hub
	notifier     Notifier
	interval     time.Duration
	botWait      time.Duration // queue age after which bots fill the table
	winningScore int
	rng          *rand.Rand
	log          *zap.Logger
}

func NewMatchmaker(queue *Queue, h *hub.Hub, notifier Notifier, interval, botWait time.Duration, winningScore int, log *zap.Logger) *Matchmaker {
	return &Matchmaker{
		queue:        queue,
		hub:          h,
		notifier:     notifier,
		interval:     interval,
		botWait:      botWait,
		winningScore: winningScore,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		log:          log,
	}
}

// Run ticks until the context ends. Each tick starts a full table when four
// players wait, or pads a partial table with bots once the head of the queue
// has waited long enough.
func (m *Matchmaker) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.tick(ctx); err != nil {
				m.log.Error("matchmaking tick failed", zap.Error(err))
			}
		}
	}
}

func (m *Matchmaker) tick(ctx context.Context) error {
	size, err := m.queue.Size(ctx)
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	if size < playersPerGame {
		wait, err := m.queue.OldestWait(ctx)
		if err != nil {
			return err
		}
		if wait < m.botWait {
			return nil
		}
	}

	humans, err := m.queue.Pop(ctx, playersPerGame)
	if err != nil {
		return err
	}
	if len(humans) == 0 {
		return nil
	}
	return m.startGame(humans)
}

func (m *Matchmaker) startGame(humans []QueuedPlayer) error {
	players := assemblePlayers(humans, m.rng)

	g, err := engine.NewGame(players, m.winningScore, nil)
	if err != nil {
		return err
	}

	reply := make(chan *room.Room, 1)
	m.hub.Inbox() <- hub.CreateRoom{Game: g, Reply: reply}
	r := <-reply

	m.log.Info("game room created",
		zap.String("gameId", g.ID),
		zap.Int("humans", len(humans)),
		zap.Int("bots", playersPerGame-len(humans)))

	if m.notifier != nil {
		for _, h := range humans {
			m.notifier.MatchFound(h.UserID, r)
		}
	}
	return nil
}

// assemblePlayers shuffles seats across humans and bots so teams are random,
// then returns the table in seat order.
func assemblePlayers(humans []QueuedPlayer, rng *rand.Rand) []engine.Player {
	seats := []int{0, 1, 2, 3}
	rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

	players := make([]engine.Player, playersPerGame)
	botIndex := 0
	for i := 0; i < playersPerGame; i++ {
		seat := seats[i]
		if i < len(humans) {
			players[seat] = engine.Player{
				ID:       humans[i].UserID,
				Username: humans[i].Username,
			}
		} else {
			players[seat] = engine.Player{
				ID:       fmt.Sprintf("bot-%s", uuid.NewString()),
				Username: botNames[botIndex],
				IsBot:    true,
			}
			botIndex++
		}
	}
	return players
}
