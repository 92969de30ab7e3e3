package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/platform/tui"
	"github.com/vovakirdan/merge2048/internal/registry"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play [classic|endless]",
	Short: "Play 2048",
	Long: `Start playing. The last unfinished game of the profile is resumed.

Controls:
  Arrows/WASD/HJKL - Slide
  U/Z              - Undo last move
  N                - New game
  C                - Keep playing after 2048
  P/Space          - Pause
  Ctrl+S           - Save screenshot
  Q/Ctrl+C         - Quit

Modes:
  classic - Stop at the 2048 tile and choose whether to keep playing
  endless - No win banner, play until the board locks

Examples:
  merge2048 play
  merge2048 play endless
  merge2048 play --difficulty easy
  merge2048 play --config ./my-2048.yaml --profile alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the TUI owns the terminal)")
	menuCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the TUI owns the terminal)")
}

// tuiLogger logs to --log-file, or nowhere.
func tuiLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return newLogger(io.Discard, "merge2048"), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
		fail("cannot create log directory: %v", err)
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fail("cannot open log file: %v", err)
	}
	return newLogger(f, "merge2048"), func() { f.Close() }
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) {
	mode := modeArg(args)
	loadConfig()

	logger, closeLog := tuiLogger()
	defer closeLog()

	game, err := registry.Create(mode.GameID())
	if err != nil {
		fail("creating game: %v", err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting game", "mode", mode, "profile", flagProfile)
	_, runErr := tui.Run(game, runtimeConfig(), tui.Options{
		Store:  store,
		Player: flagProfile,
		Logger: logger,
	})
	if runErr != nil {
		if store != nil {
			store.Close()
		}
		fail("running game: %v", runErr)
	}
}
