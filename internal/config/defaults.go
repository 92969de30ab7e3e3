package config

import (
	_ "embed"

	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the hardcoded configuration used when no YAML is available.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Rules: T2048Rules{
			WinThreshold: engine.DefaultWinThreshold,
			InitialTiles: 2,
		},
		Spawn: T2048Spawn{
			FourProbability: engine.DefaultFourProbability,
			Opening: OpeningRamp{
				Enabled:         false,
				Moves:           10,
				FourProbability: 0,
			},
		},
		Animation: T2048Animation{
			SlideTicks: 8,
			PopTicks:   6,
		},
	}
}
