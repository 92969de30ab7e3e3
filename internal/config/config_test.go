package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, ok := parse(defaultT2048YAML)
	if !ok {
		t.Fatal("embedded t2048.yaml does not parse")
	}
	if cfg != DefaultT2048Config() {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, DefaultT2048Config())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := "rules:\n  win_threshold: 4096\nspawn:\n  four_probability: 0.3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path)
	if err != nil {
		t.Fatalf("LoadT2048() error = %v", err)
	}
	if cfg.Rules.WinThreshold != 4096 {
		t.Errorf("WinThreshold = %d, want 4096", cfg.Rules.WinThreshold)
	}
	if cfg.Spawn.FourProbability != 0.3 {
		t.Errorf("FourProbability = %v, want 0.3", cfg.Spawn.FourProbability)
	}
	// Unset sections keep their defaults.
	if cfg.Rules.InitialTiles != 2 || cfg.Animation.SlideTicks != 8 {
		t.Errorf("partial file lost defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadT2048(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadT2048(bad); err == nil {
		t.Error("malformed custom config should be an error")
	}
}

func TestNormalize(t *testing.T) {
	cfg := DefaultT2048Config()
	cfg.Rules.InitialTiles = 0
	cfg.Spawn.FourProbability = 1.5
	cfg.Animation.PopTicks = -1

	got := normalize(cfg)
	if got.Rules.InitialTiles != 2 {
		t.Errorf("InitialTiles = %d, want 2", got.Rules.InitialTiles)
	}
	if got.Spawn.FourProbability != engine.DefaultFourProbability {
		t.Errorf("FourProbability = %v, want default", got.Spawn.FourProbability)
	}
	if got.Animation.PopTicks != 6 {
		t.Errorf("PopTicks = %d, want 6", got.Animation.PopTicks)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		steady  float64
		opening bool
	}{
		{DifficultyEasy, 0.05, true},
		{DifficultyNormal, 0.10, false},
		{DifficultyHard, 0.25, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultT2048Config()
			ApplyT2048Preset(&cfg, tt.preset)

			if cfg.Spawn.FourProbability != tt.steady {
				t.Errorf("FourProbability = %v, want %v", cfg.Spawn.FourProbability, tt.steady)
			}
			policy := cfg.SpawnPolicy()
			if _, isRamp := policy.(engine.OpeningRamp); isRamp != tt.opening {
				t.Errorf("SpawnPolicy() = %T, opening ramp expected: %v", policy, tt.opening)
			}
			if p := policy.FourProbability(1000); p != tt.steady {
				t.Errorf("steady odds = %v, want %v", p, tt.steady)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, ok)
	}
	if p, ok := ParsePreset("hard"); !ok || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, ok)
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("unknown preset should be rejected")
	}
}
