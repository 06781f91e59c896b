// Package matchmaking pairs waiting players into games. The queue lives in
// Redis (sorted set ordered by join time plus a per-player record with a TTL)
// so a player who vanishes without cancelling ages out on his own.
package matchmaking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	queueKey     = "belote:matchmaking:queue"
	playerPrefix = "belote:matchmaking:player:"
	playerTTL    = 30 * time.Second
)

type QueuedPlayer struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	JoinedAt int64  `json:"joinedAt"` // unix millis
}

type Queue struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewQueue(rdb *redis.Client, log *zap.Logger) *Queue {
	return &Queue{rdb: rdb, log: log}
}

func (q *Queue) Add(ctx context.Context, p QueuedPlayer) error {
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().UnixMilli()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal queued player: %w", err)
	}

	if err := q.rdb.ZAdd(ctx, queueKey, redis.Z{Score: float64(p.JoinedAt), Member: p.UserID}).Err(); err != nil {
		return err
	}
	if err := q.rdb.Set(ctx, playerPrefix+p.UserID, data, playerTTL).Err(); err != nil {
		return err
	}
	q.log.Info("player joined matchmaking queue", zap.String("userId", p.UserID))
	return nil
}

func (q *Queue) Remove(ctx context.Context, userID string) error {
	if err := q.rdb.ZRem(ctx, queueKey, userID).Err(); err != nil {
		return err
	}
	if err := q.rdb.Del(ctx, playerPrefix+userID).Err(); err != nil {
		return err
	}
	q.log.Info("player left matchmaking queue", zap.String("userId", userID))
	return nil
}

// Pop removes and returns up to count players, oldest first. Entries whose
// player record expired are dropped silently.
func (q *Queue) Pop(ctx context.Context, count int) ([]QueuedPlayer, error) {
	members, err := q.rdb.ZRange(ctx, queueKey, 0, int64(count-1)).Result()
	if err != nil {
		return nil, err
	}

	var players []QueuedPlayer
	for _, userID := range members {
		data, err := q.rdb.Get(ctx, playerPrefix+userID).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// Stale entry, record expired.
		case err != nil:
			return nil, err
		default:
			var p QueuedPlayer
			if uerr := json.Unmarshal([]byte(data), &p); uerr == nil {
				players = append(players, p)
			}
		}
		if err := q.rdb.ZRem(ctx, queueKey, userID).Err(); err != nil {
			return nil, err
		}
		if err := q.rdb.Del(ctx, playerPrefix+userID).Err(); err != nil {
			return nil, err
		}
	}
	return players, nil
}

func (q *Queue) Size(ctx context.Context) (int64, error) {
	return q.rdb.ZCard(ctx, queueKey).Result()
}

// OldestWait returns how long the head of the queue has been waiting.
func (q *Queue) OldestWait(ctx context.Context) (time.Duration, error) {
	oldest, err := q.rdb.ZRangeWithScores(ctx, queueKey, 0, 0).Result()
	if err != nil {
		return 0, err
	}
	if len(oldest) == 0 {
		return 0, nil
	}
	joined := time.UnixMilli(int64(oldest[0].Score))
	return time.Since(joined), nil
}
