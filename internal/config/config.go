// Package config provides YAML-based configuration loading for the game,
// its servers and the leaderboard.
package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	Board       BoardConfig       `yaml:"board"`
	Session     SessionConfig     `yaml:"session"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Hint        HintConfig        `yaml:"hint"`
	Log         LogConfig         `yaml:"log"`
}

// BoardConfig defines the default board and the allowed sizes.
type BoardConfig struct {
	Rows              int              `yaml:"rows"`
	Columns           int              `yaml:"columns"`
	MinSize           int              `yaml:"min_size"`
	MaxSize           int              `yaml:"max_size"`
	Spawn4Probability float64          `yaml:"spawn4_probability"`
	Difficulty        DifficultyPreset `yaml:"difficulty"` // overrides spawn4_probability when set
}

// SessionConfig controls how long idle games are kept in memory.
type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// ServerConfig holds the network listeners.
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	SSHAddr         string        `yaml:"ssh_addr"`
	HostKeyPath     string        `yaml:"host_key_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"` // SSH and HTTP keep-alive
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"` // WebSocket origins; empty allows any
}

// StorageConfig locates the leaderboard database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LeaderboardConfig shapes the high score table.
type LeaderboardConfig struct {
	Size          int    `yaml:"size"`
	MaxNameLength int    `yaml:"max_name_length"`
	DefaultName   string `yaml:"default_name"`
}

// HintConfig selects the hint oracle.
type HintConfig struct {
	Oracle  string        `yaml:"oracle"` // "random" or "greedy"
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
