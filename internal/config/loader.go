package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-user directory holding configs, the database and keys.
const DataDirName = ".merge2048"

// LoadT2048 loads the game configuration.
// Search order: customPath -> ~/.merge2048/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default
// Fields missing from a file keep their default values.
func LoadT2048(customPath string) (T2048Config, error) {
	cfg := DefaultT2048Config()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return normalize(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("t2048.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if loaded, ok := parse(data); ok {
				return loaded, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/t2048.yaml"); err == nil {
		if loaded, ok := parse(data); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if loaded, ok := parse(defaultT2048YAML); ok {
		return loaded, nil
	}
	return DefaultT2048Config(), nil
}

// parse unmarshals data over the defaults.
func parse(data []byte) (T2048Config, bool) {
	cfg := DefaultT2048Config()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return normalize(cfg), true
}

// normalize replaces out-of-range values with defaults.
func normalize(cfg T2048Config) T2048Config {
	def := DefaultT2048Config()
	if cfg.Rules.WinThreshold < 0 {
		cfg.Rules.WinThreshold = def.Rules.WinThreshold
	}
	if cfg.Rules.InitialTiles <= 0 || cfg.Rules.InitialTiles > 16 {
		cfg.Rules.InitialTiles = def.Rules.InitialTiles
	}
	if cfg.Spawn.FourProbability < 0 || cfg.Spawn.FourProbability > 1 {
		cfg.Spawn.FourProbability = def.Spawn.FourProbability
	}
	if cfg.Spawn.Opening.FourProbability < 0 || cfg.Spawn.Opening.FourProbability > 1 {
		cfg.Spawn.Opening.FourProbability = def.Spawn.Opening.FourProbability
	}
	if cfg.Animation.SlideTicks < 0 {
		cfg.Animation.SlideTicks = def.Animation.SlideTicks
	}
	if cfg.Animation.PopTicks < 0 {
		cfg.Animation.PopTicks = def.Animation.PopTicks
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DataDirName, "configs", filename)
}

// ApplyT2048Preset modifies the spawn odds based on a difficulty preset.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	cfg.Spawn.FourProbability = FourProbabilityForPreset(preset)

	switch preset {
	case DifficultyEasy:
		// A gentler start: only twos for the first moves.
		cfg.Spawn.Opening = OpeningRamp{Enabled: true, Moves: 20, FourProbability: 0}
	case DifficultyHard:
		cfg.Spawn.Opening.Enabled = false
	}
}
