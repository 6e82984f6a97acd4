package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/desmond0147/Battle-of-Wits/internal/console"
	"github.com/desmond0147/Battle-of-Wits/internal/httpserver"
	"github.com/desmond0147/Battle-of-Wits/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cmd, args := "play", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	if err := run(context.Background(), cfg, cmd, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Str("command", cmd).Msg("battle exited")
	}
}

func run(ctx context.Context, cfg config, cmd string, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	switch cmd {
	case "play":
		fs := flag.NewFlagSet("play", flag.ContinueOnError)
		daily := fs.Bool("daily", false, "play today's shared layout")
		name := fs.String("name", "", "player name (prompted when empty)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		opts := sessionOptions{Name: *name, Daily: *daily, Clear: cfg.Clear, DailySalt: cfg.DailySalt}
		if cfg.HasSeed {
			opts.Seed = &cfg.Seed
		}
		return playSession(ctx, os.Stdin, os.Stdout, st, opts)

	case "serve":
		fs := flag.NewFlagSet("serve", flag.ContinueOnError)
		port := fs.String("port", cfg.Port, "listen port")
		if err := fs.Parse(args); err != nil {
			return err
		}
		srv := httpserver.New(st)
		log.Info().Str("port", *port).Msg("serving match history")
		return srv.Start(":" + *port)

	case "leaderboard":
		fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
		limit := fs.Int("limit", store.DefaultLimit, "rows to show")
		if err := fs.Parse(args); err != nil {
			return err
		}
		rows, err := st.Leaderboard(ctx, *limit)
		if err != nil {
			return err
		}
		console.NewRenderer(os.Stdout, false).Leaderboard(rows)
		return nil

	default:
		usage()
		return flag.ErrHelp
	}
}

// openStore keeps history in memory for BATTLE_DB=:memory: and in SQLite otherwise.
func openStore(cfg config) (store.Store, error) {
	if cfg.DBPath == memoryDB {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(cfg.DBPath)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Battle of Wits

Commands:
  play        [--daily] [--name NAME]   play matches on the console (default)
  serve       [--port PORT]             serve match history as JSON
  leaderboard [--limit N]               print standings from the history

Environment:
  BATTLE_DB     history file (default ./data/history.db, ":memory:" to keep none)
  LOG_LEVEL, BATTLE_SEED, BATTLE_CLEAR, DAILY_SALT, PORT`)
}
