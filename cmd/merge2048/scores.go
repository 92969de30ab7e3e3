package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/games/t2048"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [classic|endless]",
	Short: "Show high scores",
	Long: `Display the top 10 scores of a mode with the title each one earned.

Examples:
  merge2048 scores
  merge2048 scores endless`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var statsCmd = &cobra.Command{
	Use:   "stats [classic|endless]",
	Short: "Show lifetime stats",
	Long: `Display finished-game statistics of a mode and the saved game of the
current profile.

Examples:
  merge2048 stats
  merge2048 stats endless --profile alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

var resetCmd = &cobra.Command{
	Use:   "reset [classic|endless]",
	Short: "Delete the saved game",
	Long: `Delete the saved board, best score and totals of the current profile.
Recorded high scores are kept unless --scores is given, which clears the
leaderboard of the mode for every player.

Examples:
  merge2048 reset
  merge2048 reset endless --profile alice
  merge2048 reset --scores`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReset,
}

var flagClearScores bool

func init() {
	resetCmd.Flags().BoolVar(&flagClearScores, "scores", false, "Also clear the mode's high scores")
}

// mustOpenStore opens the database or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	return store
}

func runScores(_ *cobra.Command, args []string) {
	mode := modeArg(args)
	gameID := mode.GameID()

	store := mustOpenStore()
	defer store.Close()

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - 2048 (%s)\n", mode)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'merge2048 play %s' to set the first high score!\n", mode)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-12s  %-20s  %s\n", "Rank", "Score", "Max", "Moves", "Player", "Title", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-12s  %-20s  %s\n", "----", "-----", "---", "-----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-12s  %-20s  %s\n",
			i+1, entry.Score, entry.MaxTile, entry.Moves, entry.Player,
			t2048.TitleFor(entry.Score).Name, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println(t2048.ShareText(scores[0].Score, scores[0].MaxTile))
}

func runStats(_ *cobra.Command, args []string) {
	mode := modeArg(args)
	gameID := mode.GameID()

	store := mustOpenStore()
	defer store.Close()

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	fmt.Printf("Stats - 2048 (%s)\n", mode)
	fmt.Println()
	fmt.Printf("  Finished games:  %d\n", stats.GamesCount)
	fmt.Printf("  High score:      %d\n", stats.HighScore)
	fmt.Printf("  Average score:   %.0f\n", stats.AvgScore)
	fmt.Printf("  Largest tile:    %d\n", stats.MaxTile)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played:     %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}

	key := storage.SessionKey(gameID, flagProfile)
	data, err := store.LoadSession(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	st, ok := session.Decode(data)
	if !ok {
		fmt.Println()
		fmt.Printf("No saved game for %s.\n", flagProfile)
		return
	}

	fmt.Println()
	fmt.Printf("Saved game of %s:\n", flagProfile)
	fmt.Printf("  Score:           %d (best %d)\n", st.Score, st.BestScore)
	fmt.Printf("  Moves:           %d\n", st.MoveCount)
	fmt.Printf("  Games started:   %d\n", st.TotalGames)
	fmt.Printf("  Largest tile:    %d\n", st.MaxTileEver)
	if stage := t2048.StageFor(st.MaxTileEver); stage != nil {
		fmt.Printf("  Stage:           %s\n", stage.Name)
	}
	if st.GameOver {
		fmt.Println("  Status:          game over")
	}
}

func runReset(_ *cobra.Command, args []string) {
	mode := modeArg(args)

	store := mustOpenStore()
	defer store.Close()

	key := storage.SessionKey(mode.GameID(), flagProfile)
	if err := store.DeleteSession(key); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Printf("Deleted the saved %s game of %s.\n", mode, flagProfile)

	if flagClearScores {
		if err := store.ClearScores(mode.GameID()); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Cleared all %s high scores.\n", mode)
	}
}
