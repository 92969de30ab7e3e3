// Package config provides YAML-based configuration loading and difficulty
// presets for the 2048 game.
package config

import "github.com/vovakirdan/merge2048/internal/games/t2048/engine"

// T2048Config contains all tunable parameters of the game.
type T2048Config struct {
	Rules     T2048Rules     `yaml:"rules"`
	Spawn     T2048Spawn     `yaml:"spawn"`
	Animation T2048Animation `yaml:"animation"`
}

// T2048Rules defines win condition and board setup.
type T2048Rules struct {
	WinThreshold int `yaml:"win_threshold"`
	InitialTiles int `yaml:"initial_tiles"`
}

// T2048Spawn defines how new tiles are chosen.
type T2048Spawn struct {
	FourProbability float64     `yaml:"four_probability"`
	Opening         OpeningRamp `yaml:"opening"`
}

// OpeningRamp overrides the four probability for the first moves of a game.
type OpeningRamp struct {
	Enabled         bool    `yaml:"enabled"`
	Moves           int     `yaml:"moves"`            // Moves covered by the opening odds
	FourProbability float64 `yaml:"four_probability"` // Odds used during the opening
}

// T2048Animation defines presentation timings in simulation ticks.
type T2048Animation struct {
	SlideTicks int `yaml:"slide_ticks"`
	PopTicks   int `yaml:"pop_ticks"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// FourProbabilityForPreset returns the steady four odds of a preset.
func FourProbabilityForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.05
	case DifficultyHard:
		return 0.25
	default:
		return engine.DefaultFourProbability
	}
}

// SpawnPolicy builds the engine spawn policy described by the config.
func (c T2048Config) SpawnPolicy() engine.SpawnPolicy {
	steady := engine.FixedOdds(c.Spawn.FourProbability)
	if !c.Spawn.Opening.Enabled || c.Spawn.Opening.Moves <= 0 {
		return steady
	}
	return engine.OpeningRamp{
		Moves:   c.Spawn.Opening.Moves,
		Opening: c.Spawn.Opening.FourProbability,
		Steady:  float64(steady),
	}
}
