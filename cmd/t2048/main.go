// t2048 is a sliding-tile puzzle for the terminal, with an HTTP/WebSocket
// game service and an SSH server for remote play.
//
// Usage:
//
//	t2048 play               - Play in this terminal
//	t2048 serve              - Start the HTTP + WebSocket game service
//	t2048 ssh                - Start the SSH server for remote play
//	t2048 scores             - Show high scores for a board size
//	t2048 replay <file.json> - Replay a recorded tile and move list
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml, ./configs/t2048.yaml)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - Database path (default: ~/.t2048/scores.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/hint"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Set by the root PersistentPreRunE
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the sliding-tile puzzle: slide every tile toward one edge,
equal neighbours merge once per move, and a new tile appears after each move.

Available commands:
  play     - Play in this terminal
  serve    - Start the HTTP + WebSocket game service
  ssh      - Start the SSH server for remote play
  scores   - View high scores
  replay   - Re-run a recorded game

Examples:
  t2048 play
  t2048 play --rows 5 --columns 5
  t2048 serve --http :8080
  t2048 ssh --ssh :2222
  t2048 scores --rows 4 --columns 4`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		loaded.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	cfg = loaded

	logger, err = newLogger(cfg.Log.Level)
	return err
}

func newLogger(level string) (*log.Logger, error) {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
	})
	if level == "" {
		return l, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	return l, nil
}

// openStore opens the scores database. Games still run without one.
func openStore() *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

func newOracle() (hint.Oracle, error) {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return hint.New(cfg.Hint.Oracle, seed)
}

func checkSize(rows, columns int) error {
	b := cfg.Board
	if rows < b.MinSize || rows > b.MaxSize || columns < b.MinSize || columns > b.MaxSize {
		return fmt.Errorf("board %dx%d is outside %d..%d", rows, columns, b.MinSize, b.MaxSize)
	}
	return nil
}
