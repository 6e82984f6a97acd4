// internal/game/board.go
//
// Board owns one side's grid: where its ships are and which squares the
// opponent has fired at.
// Responsibilities:
//   - Validate dimensions at construction (ship count must leave at least one empty square).
//   - Place ships by rejection sampling over a random source.
//   - Resolve guesses: reject repeats without mutation, otherwise mark hit/miss.
//   - Render a glyph grid with or without the ships shown.

package game

import (
	"fmt"
	"sort"
)

// Rand is the random source used for placement and automated guesses.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Board is one player's grid plus its ship and guess state.
type Board struct {
	size        int
	shipCount   int
	owner       string
	revealShips bool
	rng         Rand

	cells   [][]Cell
	ships   map[Coord]struct{}
	guessed map[Coord]struct{}
	order   []Coord // guesses in the order they were resolved
}

// NewBoard constructs an empty board. revealShips marks ship squares on the
// grid itself, which is how the owner's own board is kept.
func NewBoard(size, shipCount int, owner string, revealShips bool, rng Rand) (*Board, error) {
	if size < 1 || shipCount < 1 || shipCount >= size*size {
		return nil, fmt.Errorf("%w: %d ships on a %dx%d grid", ErrInvalidShipConfiguration, shipCount, size, size)
	}
	cells := make([][]Cell, size)
	for r := range cells {
		cells[r] = make([]Cell, size)
	}
	return &Board{
		size:        size,
		shipCount:   shipCount,
		owner:       owner,
		revealShips: revealShips,
		rng:         rng,
		cells:       cells,
		ships:       make(map[Coord]struct{}, shipCount),
		guessed:     make(map[Coord]struct{}),
	}, nil
}

// PlaceShips draws uniformly random squares until shipCount distinct ones are
// collected. It terminates because shipCount < size*size.
func (b *Board) PlaceShips() error {
	if len(b.ships) > 0 {
		return ErrShipsPlaced
	}
	for len(b.ships) < b.shipCount {
		c := Coord{Row: b.rng.Intn(b.size), Col: b.rng.Intn(b.size)}
		if _, dup := b.ships[c]; dup {
			continue
		}
		b.ships[c] = struct{}{}
		if b.revealShips {
			b.cells[c.Row][c.Col] = CellShip
		}
	}
	return nil
}

// ResolveGuess fires at c.
//
// A repeat is reported through GuessResult.AlreadyGuessed and leaves the board
// untouched; the caller picks another coordinate. Out-of-range coordinates
// return ErrOutOfRange.
func (b *Board) ResolveGuess(c Coord) (GuessResult, error) {
	if !b.InBounds(c) {
		return GuessResult{Coord: c}, fmt.Errorf("%w: %s on %dx%d", ErrOutOfRange, c, b.size, b.size)
	}
	if _, seen := b.guessed[c]; seen {
		return GuessResult{Coord: c, AlreadyGuessed: true}, nil
	}
	b.guessed[c] = struct{}{}
	b.order = append(b.order, c)

	_, hit := b.ships[c]
	if hit {
		b.cells[c.Row][c.Col] = CellHit
	} else {
		b.cells[c.Row][c.Col] = CellMiss
	}
	return GuessResult{Coord: c, Hit: hit}, nil
}

// RenderView returns the grid as glyphs. Hits and misses always show; ships
// that have not been hit show only when hideShips is false.
func (b *Board) RenderView(hideShips bool) [][]rune {
	out := make([][]rune, b.size)
	for r := 0; r < b.size; r++ {
		row := make([]rune, b.size)
		for c := 0; c < b.size; c++ {
			at := Coord{Row: r, Col: c}
			switch cell := b.cells[r][c]; {
			case cell == CellHit || cell == CellMiss:
				row[c] = cell.Glyph()
			case !hideShips && b.IsShip(at):
				row[c] = GlyphShip
			default:
				row[c] = GlyphEmpty
			}
		}
		out[r] = row
	}
	return out
}

func (b *Board) view(hideShips bool) View {
	return View{Label: b.owner, Grid: b.RenderView(hideShips), Afloat: b.ShipCount() - b.Hits()}
}

// InBounds reports whether c lies on the grid.
func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.size && c.Col >= 0 && c.Col < b.size
}

func (b *Board) Size() int      { return b.size }
func (b *Board) ShipCount() int { return b.shipCount }
func (b *Board) Owner() string  { return b.owner }

// Cell returns the stored state of c. Out-of-range coordinates read as empty.
func (b *Board) Cell(c Coord) Cell {
	if !b.InBounds(c) {
		return CellEmpty
	}
	return b.cells[c.Row][c.Col]
}

// IsShip reports whether a ship occupies c.
func (b *Board) IsShip(c Coord) bool {
	_, ok := b.ships[c]
	return ok
}

// HasGuessed reports whether c has already been resolved against this board.
func (b *Board) HasGuessed(c Coord) bool {
	_, ok := b.guessed[c]
	return ok
}

// Ships returns the ship positions in row-major order.
func (b *Board) Ships() []Coord {
	out := make([]Coord, 0, len(b.ships))
	for c := range b.ships {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Guesses returns every resolved coordinate in the order it was fired.
func (b *Board) Guesses() []Coord {
	return append([]Coord(nil), b.order...)
}

// Remaining is the number of squares not yet guessed.
func (b *Board) Remaining() int { return b.size*b.size - len(b.guessed) }

// Hits counts ship squares that have been hit.
func (b *Board) Hits() int {
	n := 0
	for c := range b.guessed {
		if b.IsShip(c) {
			n++
		}
	}
	return n
}

// unguessed lists the squares still open to fire at, in row-major order.
func (b *Board) unguessed() []Coord {
	out := make([]Coord, 0, b.Remaining())
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			at := Coord{Row: r, Col: c}
			if !b.HasGuessed(at) {
				out = append(out, at)
			}
		}
	}
	return out
}
