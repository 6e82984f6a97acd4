// internal/console/render.go
//
// Renderer is the console display for a match: board grids, hit/miss
// messages, the final score and the history leaderboard.

package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/desmond0147/Battle-of-Wits/internal/game"
	"github.com/desmond0147/Battle-of-Wits/internal/store"
)

const clearScreen = "\033[H\033[2J"

// Renderer implements game.Display on a writer.
type Renderer struct {
	out   io.Writer
	clear bool
}

// NewRenderer writes to out; clear wipes the terminal before each round.
func NewRenderer(out io.Writer, clear bool) *Renderer {
	return &Renderer{out: out, clear: clear}
}

func (r *Renderer) Instructions(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(r.out, l)
	}
}

func (r *Renderer) Boards(state game.MatchState, views ...game.View) {
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}
	fmt.Fprintf(r.out, "\n--- Round %d of %d ---\n", state.Round, state.TotalRounds)
	fmt.Fprintf(r.out, "Score: you %d, computer %d\n", state.Scores[game.Human], state.Scores[game.Automated])
	for _, v := range views {
		fmt.Fprintf(r.out, "%s's Board (%d afloat):\n", v.Label, v.Afloat)
		for _, row := range v.Grid {
			cells := make([]string, len(row))
			for i, g := range row {
				cells[i] = string(g)
			}
			fmt.Fprintln(r.out, strings.Join(cells, " "))
		}
	}
}

func (r *Renderer) Event(e game.Event) {
	switch {
	case e.Side == game.Human && e.Kind == game.EventRepeat:
		fmt.Fprintf(r.out, "You already fired at %s. Pick another square.\n", e.Coord)
	case e.Side == game.Human && e.Kind == game.EventHit:
		fmt.Fprintf(r.out, "You hit a ship at %s!\n", e.Coord)
	case e.Side == game.Human:
		fmt.Fprintf(r.out, "You missed at %s.\n", e.Coord)
	case e.Kind == game.EventHit:
		fmt.Fprintf(r.out, "Computer hit a ship at %s!\n", e.Coord)
	default:
		fmt.Fprintf(r.out, "Computer missed at %s.\n", e.Coord)
	}
}

func (r *Renderer) Summary(res game.Result) {
	fmt.Fprintln(r.out, "\nFinal Scores:")
	fmt.Fprintf(r.out, "%s: %d\n", res.Player, res.HumanScore)
	fmt.Fprintf(r.out, "Computer: %d\n", res.AutomatedScore)
	switch res.Outcome {
	case game.HumanWin:
		fmt.Fprintf(r.out, "%s wins!\n", res.Player)
	case game.AutomatedWin:
		fmt.Fprintln(r.out, "Computer wins!")
	default:
		fmt.Fprintln(r.out, "It's a tie!")
	}
}

// Leaderboard prints history standings as a table.
func (r *Renderer) Leaderboard(rows []store.Standing) {
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "No matches recorded yet.")
		return
	}
	fmt.Fprintf(r.out, "%-3s %-20s %6s %4s %6s %4s %4s\n", "#", "Player", "Played", "Wins", "Losses", "Ties", "Hits")
	for i, s := range rows {
		fmt.Fprintf(r.out, "%-3d %-20s %6d %4d %6d %4d %4d\n", i+1, s.Player, s.Played, s.Wins, s.Losses, s.Ties, s.Hits)
	}
}
