// merge2048 is the sliding-tile puzzle 2048 for the terminal, over SSH,
// over websocket and as MCP tools.
//
// Usage:
//
//	merge2048 play [classic|endless]  - Play in this terminal
//	merge2048 menu                    - Pick a mode interactively
//	merge2048 serve                   - Start SSH server for remote play
//	merge2048 ws                      - Start websocket server
//	merge2048 mcp                     - Serve MCP tools on stdio
//	merge2048 scores [mode]           - Show high scores
//	merge2048 stats [mode]            - Show lifetime stats
//	merge2048 reset [mode]            - Delete the saved game
//	merge2048 list                    - List modes
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.merge2048/scores.db)
//	--config <path>      - Custom game config YAML
//	--difficulty <name>  - Spawn preset: easy, normal, hard
//	--profile <name>     - Player the session and scores are saved under
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagProfile    string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "merge2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `merge2048 is the sliding-tile puzzle 2048.

Slide the board, merge equal tiles and reach 2048. The game is saved after
every move and resumed the next time you play.

Available commands:
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  ws       - Start websocket server
  mcp      - Serve MCP tools on stdio
  scores   - View high scores
  stats    - View lifetime stats
  reset    - Delete the saved game
  list     - Show available modes

Examples:
  merge2048 play
  merge2048 play endless --difficulty hard
  merge2048 serve --ssh :2222
  merge2048 ws --addr :8080
  merge2048 scores endless`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/"+config.DataDirName+"/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", defaultProfile(), "Player name for saved games and scores")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
}

func defaultProfile() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// fail prints the error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the logger for w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid --log-level %q: %v", flagLogLevel, err)
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig reads the game config and applies --difficulty. The result is
// also installed as the config of games created by the registry.
func loadConfig() config.T2048Config {
	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			fail("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		config.ApplyT2048Preset(&cfg, preset)
	}
	t2048.SetConfig(cfg)
	return cfg
}

// openStore opens the scores database, or returns nil with a warning so the
// game still works without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// modeArg parses an optional mode argument.
func modeArg(args []string) t2048.Mode {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	mode, ok := t2048.ParseMode(raw)
	if !ok {
		fail("unknown mode %q\nRun 'merge2048 list' to see available modes.", raw)
	}
	return mode
}
