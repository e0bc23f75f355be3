package world

import "fmt"

// Rank thresholds.
const (
	RankStep         = 15000  // Score width of one rank bucket
	BeatScore        = 124000 // Scores at or above this beat the game
	CreatorHighScore = 123790
)

// RankNames lists the ranks from lowest to highest.
var RankNames = [...]string{
	"Novice Sevak",
	"Temple Helper",
	"Dedicated Devotee",
	"Annakut Assistant",
	"Prasad Master",
	"Seva Champion",
	"Bhog Expert",
	"Maharaj's Blessing",
}

const topRank = len(RankNames) - 1

// Rank is the title a final score earns.
type Rank struct {
	Index  int    // floor(score / RankStep), capped at the top rank
	Name   string // Empty when Beaten
	Bucket string // Score range, e.g. "45k-60k"
	Beaten bool   // Score reached BeatScore
}

// RankFor returns the rank a score earns.
func RankFor(score int) Rank {
	idx := score / RankStep
	switch {
	case score >= BeatScore:
		return Rank{Index: topRank, Bucket: "124k+", Beaten: true}
	case idx >= topRank:
		return Rank{Index: topRank, Name: RankNames[topRank], Bucket: bucket(topRank)}
	default:
		return Rank{Index: idx, Name: RankNames[idx], Bucket: bucket(idx)}
	}
}

func bucket(idx int) string {
	if idx >= topRank {
		return "105k-124k"
	}
	return fmt.Sprintf("%dk-%dk", idx*15, (idx+1)*15)
}

// RowKind tells a rank table row apart.
type RowKind int

const (
	RowLower RowKind = iota
	RowAchieved
	RowNext
)

// RankRow is one line of the game-over rank table.
type RankRow struct {
	Kind   RowKind
	Bucket string
	Label  string
}

// RankTable is what the game-over screen shows: every rank below the one
// achieved, the achieved rank, and the next one to aim for.
type RankTable struct {
	Score    int
	Coins    int
	Achieved Rank
	Rows     []RankRow
}

// BuildRankTable lays out the rank table for a finished run.
func BuildRankTable(score, coins int) RankTable {
	r := RankFor(score)
	t := RankTable{Score: score, Coins: coins, Achieved: r}

	lower := r.Index
	if r.Beaten {
		lower = len(RankNames)
	}
	for i := 0; i < lower; i++ {
		t.Rows = append(t.Rows, RankRow{Kind: RowLower, Bucket: bucket(i), Label: RankNames[i]})
	}

	achieved := RankRow{Kind: RowAchieved, Bucket: r.Bucket}
	if r.Beaten {
		achieved.Label = fmt.Sprintf("Congrats! You exceeded the creator's high score of %d and beat the game!", CreatorHighScore)
	} else {
		achieved.Label = fmt.Sprintf("Congrats! You're a %s!", r.Name)
	}
	t.Rows = append(t.Rows, achieved)

	if !r.Beaten {
		next := "124k+"
		if r.Index < topRank {
			next = bucket(r.Index + 1)
		}
		t.Rows = append(t.Rows, RankRow{Kind: RowNext, Bucket: next, Label: "*Score within this range to earn the next rank*"})
	}
	return t
}

// GameOverMessage is the banner shown when a run ends.
func GameOverMessage(coins int) string {
	return fmt.Sprintf("Game over! You collected %d coins! Press the down arrow to try again.", coins)
}

// PausedMessage is the banner shown while paused.
const PausedMessage = "Game is paused. Press any key to resume."
