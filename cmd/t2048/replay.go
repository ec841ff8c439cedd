package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/wire"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.json>",
	Short: "Re-run a recorded game and print the final board",
	Long: `Read a recorded game and replay its tiles and moves locally.
The file uses the same body as POST /api/game/replay:

  {"rows": 4, "columns": 4, "encoding": "exponent",
   "tiles": [{"row": 0, "column": 1, "value": 1}, ...],
   "moves": ["left", "up", ...]}

Use "-" to read from standard input.

Examples:
  t2048 replay game.json
  curl -s ... | t2048 replay -`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	req, err := readReplay(args[0])
	if err != nil {
		return err
	}
	tiles, moves, err := req.Decode()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	sess, err := session.Replay("replay", req.Rows, req.Columns, tiles, moves)
	if err != nil {
		return fmt.Errorf("replaying %s: %w", args[0], err)
	}
	snap := sess.Snapshot()

	logger.Debug("replayed game", "rows", req.Rows, "columns", req.Columns, "moves", len(moves))
	fmt.Printf("Replayed %dx%d game (%d moves)\n\n", req.Rows, req.Columns, snap.Moves)
	fmt.Println(formatBoard(snap.Board))
	fmt.Printf("Score: %d  Best tile: %d  Over: %t\n", snap.Score, snap.MaxTile, snap.Terminal)
	return nil
}

func readReplay(path string) (wire.ReplayRequest, error) {
	var req wire.ReplayRequest
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return req, fmt.Errorf("opening replay: %w", err)
		}
		defer f.Close()
	}
	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return req, fmt.Errorf("parsing replay: %w", err)
	}
	return req, nil
}

func formatBoard(values [][]int) string {
	var b strings.Builder
	for _, row := range values {
		for c, v := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if v == 0 {
				fmt.Fprintf(&b, "%5s", ".")
			} else {
				fmt.Fprintf(&b, "%5d", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
