// Package engine implements the sliding-tile board rules: line orientation,
// slide resolution with single-merge-per-tile semantics, tile spawning, move
// availability and scoring. It performs no I/O and holds no global state.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a direction string is not one of
// up, down, left or right.
var ErrInvalidDirection = errors.New("engine: invalid direction")

// Direction represents a slide direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four directions in a fixed order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// vertical reports whether the direction slides along columns.
func (d Direction) vertical() bool {
	return d == DirUp || d == DirDown
}

// ParseDirection parses a direction name. Matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
