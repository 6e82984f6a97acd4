package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/desmond0147/Battle-of-Wits/assets"
	"github.com/desmond0147/Battle-of-Wits/internal/console"
	"github.com/desmond0147/Battle-of-Wits/internal/daily"
	"github.com/desmond0147/Battle-of-Wits/internal/game"
	"github.com/desmond0147/Battle-of-Wits/internal/store"
)

type sessionOptions struct {
	Name      string
	Daily     bool
	Seed      *int64 // first classic match seed; later matches add their index
	DailySalt string
	Clear     bool
	Now       func() time.Time
}

// playSession runs matches until the player declines another or input ends.
// Each finished match is recorded in st; a failed save is logged, not fatal.
func playSession(ctx context.Context, in io.Reader, out io.Writer, st store.Store, opts sessionOptions) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	prompter := console.NewPrompter(in, out)
	renderer := console.NewRenderer(out, opts.Clear)

	lines, err := assets.Instructions()
	if err != nil {
		return fmt.Errorf("load instructions: %w", err)
	}
	renderer.Instructions(lines)

	name := opts.Name
	if name == "" {
		if name, err = prompter.Name(ctx, "Player"); err != nil {
			return quietEOF(err)
		}
	}

	for i := 0; ; i++ {
		mode, seed := "classic", opts.Now().UnixNano()
		switch {
		case opts.Daily:
			mode, seed = "daily", daily.Seed(opts.Now(), opts.DailySalt)
		case opts.Seed != nil:
			seed = *opts.Seed + int64(i)
		}

		m, err := game.NewMatch(
			game.Config{Player: name, Mode: mode, Seed: seed},
			rand.New(rand.NewSource(seed)),
			prompter, renderer,
			game.WithLogger(log.Logger),
		)
		if err != nil {
			return err
		}
		log.Debug().Str("match", m.ID()).Str("mode", mode).Int64("seed", seed).Msg("new match")

		res, err := m.Run(ctx, game.DefaultRounds)
		if err != nil {
			return quietEOF(err)
		}
		if err := st.Save(ctx, res); err != nil {
			log.Warn().Err(err).Str("match", res.ID).Msg("save match result")
		}
		fmt.Fprintln(out, "\nGame Over! Thanks for playing.")

		again, err := prompter.Confirm(ctx, "Play again?")
		if err != nil {
			return quietEOF(err)
		}
		if !again {
			return nil
		}
	}
}

// quietEOF treats closed input as the player leaving.
func quietEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
