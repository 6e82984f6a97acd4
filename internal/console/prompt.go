// internal/console/prompt.go
//
// Line-oriented input for the console game. Everything the player types is
// parsed and range-checked here; the game engine only ever receives
// coordinates that lie on the board.

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desmond0147/Battle-of-Wits/internal/game"
)

// Prompter reads answers from in and writes prompts to out.
// It implements game.Input.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// NextGuess asks for a row and then a column, re-prompting until each is an
// integer in [0,size).
func (p *Prompter) NextGuess(ctx context.Context, size int) (game.Coord, error) {
	row, err := p.readIndex(ctx, "row", size)
	if err != nil {
		return game.Coord{}, err
	}
	col, err := p.readIndex(ctx, "column", size)
	if err != nil {
		return game.Coord{}, err
	}
	return game.Coord{Row: row, Col: col}, nil
}

func (p *Prompter) readIndex(ctx context.Context, what string, size int) (int, error) {
	for {
		line, err := p.ask(ctx, fmt.Sprintf("Enter a %s to guess (0-%d): ", what, size-1))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(p.out, "Invalid input: %q is not a number. Try again.\n", line)
			continue
		}
		if n < 0 || n >= size {
			fmt.Fprintf(p.out, "Invalid input: out of range. Please enter numbers between 0 and %d. Try again.\n", size-1)
			continue
		}
		return n, nil
	}
}

// Name asks for the player's name, falling back to def on an empty answer.
func (p *Prompter) Name(ctx context.Context, def string) (string, error) {
	line, err := p.ask(ctx, "Please enter your name: ")
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question until it gets y, yes, n or no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		line, err := p.ask(ctx, question+" (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// ask writes the prompt and returns the next trimmed line. A closed input
// returns io.EOF.
func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}
