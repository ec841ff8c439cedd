package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the default configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows:              4,
			Columns:           4,
			MinSize:           2,
			MaxSize:           8,
			Spawn4Probability: 0.1,
		},
		Session: SessionConfig{
			IdleTTL:       30 * time.Minute,
			CleanupPeriod: time.Minute,
		},
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			SSHAddr:         ":23234",
			HostKeyPath:     ".ssh/t2048_ed25519",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     10 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/scores.db",
		},
		Leaderboard: LeaderboardConfig{
			Size:          10,
			MaxNameLength: 50,
			DefaultName:   "Anonymous",
		},
		Hint: HintConfig{
			Oracle:  "random",
			Timeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
