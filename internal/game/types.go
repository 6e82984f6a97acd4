// internal/game/types.go
//
// Core type definitions for the battle game engine.
// Defines:
//   - Cell: state of a single grid square (empty/ship/hit/miss).
//   - Coord: a row/column pair on a board.
//   - GuessResult: outcome of resolving one coordinate against a board.
//   - Side, Outcome, Phase: match bookkeeping.
//   - Sentinel errors shared by Board and Match.

package game

import (
	"errors"
	"fmt"
)

// Fixed dimensions of a standard match.
const (
	DefaultSize   = 5
	DefaultShips  = 4
	DefaultRounds = 6
)

// Cell represents the state of one grid square.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellShip
	CellHit
	CellMiss
)

// Glyphs used by RenderView.
const (
	GlyphEmpty = '~'
	GlyphShip  = 'S'
	GlyphHit   = 'H'
	GlyphMiss  = 'O'
)

// Glyph returns the display symbol for the cell.
func (c Cell) Glyph() rune {
	switch c {
	case CellShip:
		return GlyphShip
	case CellHit:
		return GlyphHit
	case CellMiss:
		return GlyphMiss
	default:
		return GlyphEmpty
	}
}

func (c Cell) String() string {
	switch c {
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "empty"
	}
}

// Coord identifies a square on a board. Both fields are 0-based.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d, %d)", c.Row, c.Col) }

// GuessResult is the outcome of Board.ResolveGuess.
// AlreadyGuessed means the coordinate was rejected and the board is unchanged.
type GuessResult struct {
	Coord          Coord `json:"coord"`
	Hit            bool  `json:"hit"`
	AlreadyGuessed bool  `json:"alreadyGuessed"`
}

// OK reports whether the guess was accepted.
func (r GuessResult) OK() bool { return !r.AlreadyGuessed }

// Err returns ErrRepeatGuess for a rejected guess and nil otherwise.
func (r GuessResult) Err() error {
	if r.AlreadyGuessed {
		return fmt.Errorf("%w: %s", ErrRepeatGuess, r.Coord)
	}
	return nil
}

// Side identifies one of the two players.
type Side string

const (
	Human     Side = "human"
	Automated Side = "automated"
)

// Outcome is the final verdict of a match.
type Outcome string

const (
	HumanWin     Outcome = "HUMAN_WIN"
	AutomatedWin Outcome = "AUTOMATED_WIN"
	Tie          Outcome = "TIE"
)

// Decide compares two scores. Equal scores are a tie.
func Decide(human, automated int) Outcome {
	switch {
	case human > automated:
		return HumanWin
	case automated > human:
		return AutomatedWin
	default:
		return Tie
	}
}

// Phase is the controller's position in its state machine.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseRound    Phase = "round"
	PhaseFinished Phase = "finished"
	PhaseAborted  Phase = "aborted"
)

var (
	// ErrOutOfRange is returned for a coordinate outside [0,size).
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrRepeatGuess marks a coordinate already resolved against a board.
	ErrRepeatGuess = errors.New("coordinate already guessed")
	// ErrInvalidShipConfiguration is returned when a board cannot hold the requested ships.
	ErrInvalidShipConfiguration = errors.New("invalid ship configuration")
	// ErrShipsPlaced is returned when PlaceShips runs twice on one board.
	ErrShipsPlaced = errors.New("ships already placed")
	// ErrInvalidRounds is returned for a round count the board cannot sustain.
	ErrInvalidRounds = errors.New("invalid round count")
	// ErrMatchOver is returned when Run is called on a finished or aborted match.
	ErrMatchOver = errors.New("match is over")
	// ErrBoardExhausted is returned when no unguessed coordinate remains.
	ErrBoardExhausted = errors.New("no coordinates left to guess")
)
