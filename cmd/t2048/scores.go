package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoreRows    int
	flagScoreColumns int
	flagInteractive  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores for a board size",
	Long: `Display the top scores for a board size, or browse every size
with --interactive.

Examples:
  t2048 scores
  t2048 scores --rows 5 --columns 5
  t2048 scores -i`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreRows, "rows", 0, "Board rows (default from config)")
	scoresCmd.Flags().IntVar(&flagScoreColumns, "columns", 0, "Board columns (default from config)")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
}

func runScores(_ *cobra.Command, _ []string) error {
	rows, columns := cfg.Board.Rows, cfg.Board.Columns
	if flagScoreRows > 0 {
		rows = flagScoreRows
	}
	if flagScoreColumns > 0 {
		columns = flagScoreColumns
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, tui.BoardSize{Rows: rows, Columns: columns}, cfg.Leaderboard.Size, width, height)
	}

	scores, err := store.TopScores(rows, columns, cfg.Leaderboard.Size)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %dx%d\n", rows, columns)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play --rows %d --columns %d' to set the first high score!\n", rows, columns)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "Rank", "Name", "Score", "Tile", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "----", "----", "-----", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %-6d  %s\n", i+1, entry.Name, entry.Score, entry.MaxTile, dateStr)
	}

	fmt.Println()
	stats, err := store.GetBoardStats(rows, columns)
	if err != nil {
		logger.Warn("could not read board stats", "error", err)
		return nil
	}
	fmt.Printf("Best: %d  Games: %d  Average: %.0f  Best tile: %d\n",
		stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestTile)
	return nil
}
