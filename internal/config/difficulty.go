package config

// DifficultyPreset represents a named difficulty level. Difficulty only
// changes how often a spawned tile is a 4 instead of a 2.
type DifficultyPreset string

const (
	DifficultyNone   DifficultyPreset = ""
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Valid reports whether the preset is known. The empty preset is valid.
func (p DifficultyPreset) Valid() bool {
	switch p {
	case DifficultyNone, DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// Spawn4ForPreset returns the 4-tile probability for a difficulty preset.
func Spawn4ForPreset(preset DifficultyPreset) (float64, bool) {
	switch preset {
	case DifficultyEasy:
		return 0.25, true // more 4s means fewer moves to reach big tiles
	case DifficultyNormal:
		return 0.1, true
	case DifficultyHard:
		return 0.0, true
	default:
		return 0, false
	}
}

// ApplyDifficulty modifies the config based on its difficulty preset.
func ApplyDifficulty(cfg *Config) {
	if p, ok := Spawn4ForPreset(cfg.Board.Difficulty); ok {
		cfg.Board.Spawn4Probability = p
	}
}
