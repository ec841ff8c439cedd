package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Load reads the configuration, applies environment overrides and validates
// the result.
// Search order: customPath -> ~/.t2048/config.yaml -> ./configs/t2048.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	ApplyDifficulty(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/t2048.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", filename)
}

// ApplyEnv overrides cfg from T2048_* environment variables.
func ApplyEnv(cfg *Config) {
	if val := os.Getenv("T2048_HTTP_ADDR"); val != "" {
		cfg.Server.HTTPAddr = val
	}
	if val := os.Getenv("T2048_SSH_ADDR"); val != "" {
		cfg.Server.SSHAddr = val
	}
	if val := os.Getenv("T2048_HOST_KEY"); val != "" {
		cfg.Server.HostKeyPath = val
	}
	if val := os.Getenv("T2048_DB_PATH"); val != "" {
		cfg.Storage.DBPath = val
	}
	if val := os.Getenv("T2048_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("T2048_HINT_ORACLE"); val != "" {
		cfg.Hint.Oracle = val
	}
	if val := getEnvInt("T2048_ROWS"); val > 0 {
		cfg.Board.Rows = val
	}
	if val := getEnvInt("T2048_COLUMNS"); val > 0 {
		cfg.Board.Columns = val
	}
	if val := getEnvInt("T2048_LEADERBOARD_SIZE"); val > 0 {
		cfg.Leaderboard.Size = val
	}

	// Support preset modes
	if mode := os.Getenv("T2048_DIFFICULTY"); mode != "" {
		cfg.Board.Difficulty = DifficultyPreset(mode)
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

// Validate checks board limits, probabilities and named options.
func (c Config) Validate() error {
	b := c.Board
	if b.MinSize < 2 {
		return fmt.Errorf("%w: board.min_size %d is below 2", ErrInvalid, b.MinSize)
	}
	if b.MaxSize < b.MinSize {
		return fmt.Errorf("%w: board.max_size %d is below min_size %d", ErrInvalid, b.MaxSize, b.MinSize)
	}
	if b.Rows < b.MinSize || b.Rows > b.MaxSize || b.Columns < b.MinSize || b.Columns > b.MaxSize {
		return fmt.Errorf("%w: board %dx%d outside %d..%d", ErrInvalid, b.Rows, b.Columns, b.MinSize, b.MaxSize)
	}
	if b.Spawn4Probability < 0 || b.Spawn4Probability > 1 {
		return fmt.Errorf("%w: board.spawn4_probability %v not in [0,1]", ErrInvalid, b.Spawn4Probability)
	}
	if !b.Difficulty.Valid() {
		return fmt.Errorf("%w: board.difficulty %q", ErrInvalid, b.Difficulty)
	}
	if c.Leaderboard.Size < 1 {
		return fmt.Errorf("%w: leaderboard.size must be positive", ErrInvalid)
	}
	if c.Leaderboard.MaxNameLength < 1 {
		return fmt.Errorf("%w: leaderboard.max_name_length must be positive", ErrInvalid)
	}
	switch c.Hint.Oracle {
	case "random", "greedy":
	default:
		return fmt.Errorf("%w: hint.oracle %q", ErrInvalid, c.Hint.Oracle)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("%w: storage.db_path is empty", ErrInvalid)
	}
	return nil
}
