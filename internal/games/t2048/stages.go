// Package t2048 adapts a 2048 session to the platform's tick-driven Game
// interface: it maps input actions to moves, animates results and renders the board.
package t2048

import "fmt"

// Stage is a milestone reached by building a tile of at least Tile.
type Stage struct {
	Tile int
	Name string
}

// Stages lists the milestones in ascending order.
var Stages = []Stage{
	{Tile: 128, Name: "Intro"},
	{Tile: 256, Name: "Novice"},
	{Tile: 512, Name: "Intermediate"},
	{Tile: 1024, Name: "Advanced"},
	{Tile: 2048, Name: "Master"},
	{Tile: 4096, Name: "Legend"},
}

// StageFor returns the highest stage reached with maxTile, or nil before the first one.
func StageFor(maxTile int) *Stage {
	for i := len(Stages) - 1; i >= 0; i-- {
		if maxTile >= Stages[i].Tile {
			return &Stages[i]
		}
	}
	return nil
}

// NextStage returns the first stage not yet reached, or nil after the last one.
func NextStage(maxTile int) *Stage {
	for i := range Stages {
		if maxTile < Stages[i].Tile {
			return &Stages[i]
		}
	}
	return nil
}

// Title is a rank earned by score.
type Title struct {
	MinScore int
	Name     string
	Desc     string
}

// Titles lists the ranks in ascending order of MinScore.
var Titles = []Title{
	{MinScore: 0, Name: "Rookie Researcher", Desc: "Evolution begins"},
	{MinScore: 500, Name: "Apprentice Tamer", Desc: "Getting the feel"},
	{MinScore: 1000, Name: "Evolution Challenger", Desc: "The joy of merging"},
	{MinScore: 2000, Name: "Mutation Scholar", Desc: "Patterns emerge"},
	{MinScore: 3000, Name: "Geneticist", Desc: "Merging with a plan"},
	{MinScore: 5000, Name: "Evolution Master", Desc: "Advanced strategy"},
	{MinScore: 8000, Name: "Architect of Life", Desc: "Total control"},
	{MinScore: 12000, Name: "Apprentice Creator", Desc: "Almost divine"},
	{MinScore: 20000, Name: "God of Creation", Desc: "A legend begins"},
	{MinScore: 30000, Name: "Ruler of All", Desc: "Leading every evolution"},
	{MinScore: 50000, Name: "Cosmos Creator", Desc: "Opening a new universe"},
}

// TitleFor returns the highest title whose threshold score meets.
func TitleFor(score int) Title {
	result := Titles[0]
	for _, t := range Titles {
		if score < t.MinScore {
			break
		}
		result = t
	}
	return result
}

// ShareText is a one-line summary of a finished game.
func ShareText(score, maxTile int) string {
	return fmt.Sprintf("merge2048 | score %d | max tile %d | %s", score, maxTile, TitleFor(score).Name)
}
