package t2048

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
)

// SessionOptions configures a session driven outside the tick loop.
type SessionOptions struct {
	Mode   Mode
	Config config.T2048Config
	Seed   int64 // 0 picks a time-based seed
	Gate   bool
	Store  session.Store
	Key    string
	Logger *log.Logger
}

// NewSession builds a session with the rules and spawn policy of cfg.
// It does not start or resume a game; call NewGame or Resume.
func NewSession(opts SessionOptions) *session.Session {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return session.New(session.Config{
		WinThreshold: opts.Config.Rules.WinThreshold,
		Endless:      opts.Mode == ModeEndless,
		InitialTiles: opts.Config.Rules.InitialTiles,
		Gate:         opts.Gate,
		Spawner:      engine.NewSpawner(rand.New(rand.NewSource(seed)), opts.Config.SpawnPolicy()),
		Store:        opts.Store,
		Key:          opts.Key,
		Logger:       logger,
	})
}

// GameID returns the registry ID of the mode.
func (m Mode) GameID() string {
	if m == ModeEndless {
		return EndlessID
	}
	return ClassicID
}

// ParseMode maps "classic"/"endless" (or a registry ID) to a mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeClassic), ClassicID:
		return ModeClassic, true
	case string(ModeEndless), EndlessID:
		return ModeEndless, true
	}
	return "", false
}

// View is what remote clients see of a session.
type View struct {
	Grid        engine.Grid    `json:"grid"`
	TileIDs     engine.TileIDs `json:"tileIds"`
	Score       int            `json:"score"`
	BestScore   int            `json:"bestScore"`
	TotalGames  int            `json:"totalGames"`
	MoveCount   int            `json:"moveCount"`
	MaxTile     int            `json:"maxTile"`
	Won         bool           `json:"won"`
	KeepPlaying bool           `json:"keepPlaying"`
	WinPending  bool           `json:"winPending"`
	GameOver    bool           `json:"gameOver"`
	CanUndo     bool           `json:"canUndo"`
	Endless     bool           `json:"endless"`
	Stage       string         `json:"stage,omitempty"`
	Title       string         `json:"title"`
}

// NewView captures the current state of s.
func NewView(s *session.Session) View {
	st := s.State()
	maxTile := engine.MaxTile(st.Grid)
	v := View{
		Grid:        st.Grid,
		TileIDs:     st.IDs,
		Score:       st.Score,
		BestScore:   st.BestScore,
		TotalGames:  st.TotalGames,
		MoveCount:   st.MoveCount,
		MaxTile:     maxTile,
		Won:         st.Won,
		KeepPlaying: st.KeepPlaying,
		WinPending:  s.WinPending(),
		GameOver:    st.GameOver,
		CanUndo:     s.CanUndo(),
		Endless:     s.Endless(),
		Title:       TitleFor(st.Score).Name,
	}
	if stage := StageFor(maxTile); stage != nil {
		v.Stage = stage.Name
	}
	return v
}

// Text renders the view as a fixed-width board with a status line.
func (v View) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score %d  best %d  moves %d  max %d\n", v.Score, v.BestScore, v.MoveCount, v.MaxTile)
	for _, row := range v.Grid {
		for c, val := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if val == 0 {
				fmt.Fprintf(&b, "%5s", ".")
				continue
			}
			fmt.Fprintf(&b, "%5d", val)
		}
		b.WriteByte('\n')
	}
	switch {
	case v.GameOver:
		b.WriteString("game over: no moves left")
	case v.WinPending:
		b.WriteString("win tile reached: keep_playing to continue")
	default:
		b.WriteString("title: " + v.Title)
	}
	return b.String()
}

// MoveView is the animation-relevant part of a committed move.
type MoveView struct {
	Changed   bool           `json:"changed"`
	ScoreGain int            `json:"scoreGain"`
	Moves     []engine.Move  `json:"moves"`
	Merges    []engine.Merge `json:"merges"`
}

// NewMoveView extracts the move description from out.
func NewMoveView(out session.Outcome) MoveView {
	return MoveView{
		Changed:   out.Result.Changed,
		ScoreGain: out.Result.ScoreGain,
		Moves:     out.Result.Moves,
		Merges:    out.Result.Merges,
	}
}
