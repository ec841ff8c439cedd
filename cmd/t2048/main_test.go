package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	if err != nil {
		t.Fatalf("newLogger(debug) failed: %v", err)
	}
	if l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("newLogger(loud) should fail")
	}
}

func TestCheckSize(t *testing.T) {
	cfg = config.Default()
	cfg.Board.MinSize, cfg.Board.MaxSize = 3, 6

	tests := []struct {
		rows, columns int
		wantErr       bool
	}{
		{4, 4, false},
		{3, 6, false},
		{2, 4, true},
		{4, 7, true},
	}
	for _, tt := range tests {
		err := checkSize(tt.rows, tt.columns)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkSize(%d, %d) error = %v, wantErr %v", tt.rows, tt.columns, err, tt.wantErr)
		}
	}
}

func TestFormatBoard(t *testing.T) {
	got := formatBoard([][]int{{2, 0}, {0, 1024}})
	want := "    2     .\n    .  1024\n"
	if got != want {
		t.Errorf("formatBoard() = %q, want %q", got, want)
	}
}

func TestReadReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	body := `{"rows": 2, "columns": 2, "encoding": "exponent",
		"tiles": [{"row": 0, "column": 0, "value": 1}, {"row": 0, "column": 1, "value": 1}, {"row": 1, "column": 1, "value": 1}],
		"moves": ["left"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := readReplay(path)
	if err != nil {
		t.Fatalf("readReplay() failed: %v", err)
	}
	tiles, moves, err := req.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(tiles) != 3 || len(moves) != 1 || tiles[0].Value != 2 {
		t.Fatalf("decoded %v / %v", tiles, moves)
	}

	if _, err := readReplay(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("readReplay(missing) should fail")
	}
}
