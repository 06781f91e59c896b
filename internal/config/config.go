// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	TokenExpire time.Duration

	WinningScore int

	BotDelay            time.Duration // pause before a bot seat acts
	MatchmakingInterval time.Duration
	MatchmakingBotWait  time.Duration // queue age before bots fill the table
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:                getEnv("PORT", "3000"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret"),
		TokenExpire:         getDuration("TOKEN_EXPIRE", 24*time.Hour),
		WinningScore:        getInt("WINNING_SCORE", 1501),
		BotDelay:            getDuration("BOT_DELAY", 1200*time.Millisecond),
		MatchmakingInterval: getDuration("MATCHMAKING_INTERVAL", 2*time.Second),
		MatchmakingBotWait:  getDuration("MATCHMAKING_BOT_WAIT", 8*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
