package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagRows    int
	flagColumns int
	flagName    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal. Without --rows/--columns a menu lets you
pick a square board.

Controls:
  Arrows/WASD/hjkl - Slide
  Mouse drag       - Slide toward the drag
  H                - Hint
  T                - Toggle top scores
  R                - Restart
  Q/Ctrl+C         - Quit

Examples:
  t2048 play
  t2048 play --rows 5 --columns 5 --name ada
  t2048 play --seed 42`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (default from config)")
	playCmd.Flags().IntVar(&flagColumns, "columns", 0, "Board columns (default from config)")
	playCmd.Flags().StringVar(&flagName, "name", "", "Name for the leaderboard (default $USER)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	store := openStore()
	var scores tui.Leaderboard
	var source tui.ScoreSource
	if store != nil {
		defer store.Close()
		scores, source = store, store
	}

	oracle, err := newOracle()
	if err != nil {
		return err
	}

	size := tui.BoardSize{Rows: cfg.Board.Rows, Columns: cfg.Board.Columns}
	if cmd.Flags().Changed("rows") || cmd.Flags().Changed("columns") {
		if flagRows > 0 {
			size.Rows = flagRows
		}
		if flagColumns > 0 {
			size.Columns = flagColumns
		}
	} else {
		for {
			sel, err := tui.RunMenu(cfg.Board.MinSize, cfg.Board.MaxSize, size, width, height)
			if err != nil {
				return err
			}
			if sel == nil {
				return nil
			}
			size = sel.Size
			if !sel.Scoreboard {
				break
			}
			if err := tui.RunScoreboard(source, size, cfg.Leaderboard.Size, width, height); err != nil {
				return err
			}
		}
	}
	if err := checkSize(size.Rows, size.Columns); err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Rows:            size.Rows,
		Columns:         size.Columns,
		Spawn4:          cfg.Board.Spawn4Probability,
		Seed:            flagSeed,
		Name:            playerName(),
		Scores:          scores,
		LeaderboardSize: cfg.Leaderboard.Size,
		Oracle:          oracle,
		HintTimeout:     cfg.Hint.Timeout,
	})
}

func playerName() string {
	name := flagName
	if name == "" {
		name = os.Getenv("USER")
	}
	return storage.NormalizeName(name, cfg.Leaderboard.MaxNameLength, cfg.Leaderboard.DefaultName)
}
