// internal/game/engine.go
//
// Match controller for a single human-vs-automated game.
// Responsibilities:
//   - Build both boards and place their ships (SETUP).
//   - Drive rounds 1..n: one human guess, then one automated guess.
//   - Keep score in an explicit MatchState and decide the outcome.
//   - Track state transitions: setup → round → finished (or aborted).
//
// Notes:
//   - A repeated human guess is surfaced to the display and asked again.
//   - A repeated automated guess is retried silently; the player never sees it.
//   - Randomness comes from the injected Rand so tests can fix outcomes.

package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Input supplies the human side's coordinates. Implementations return an
// in-range coordinate or an error; they may block until one is available.
type Input interface {
	NextGuess(ctx context.Context, size int) (Coord, error)
}

// Display presents the match as it progresses.
type Display interface {
	// Boards is called at the start of every round.
	Boards(state MatchState, views ...View)
	// Event reports one resolved or rejected guess.
	Event(e Event)
	// Summary is called once when the match finishes.
	Summary(r Result)
}

// View is a rendered board with its label. Afloat counts ships not yet hit.
type View struct {
	Label  string
	Grid   [][]rune
	Afloat int
}

// EventKind classifies an Event.
type EventKind string

const (
	EventHit    EventKind = "hit"
	EventMiss   EventKind = "miss"
	EventRepeat EventKind = "repeat"
)

// Event describes one guess. Score is the guessing side's score after it.
type Event struct {
	Round int
	Side  Side
	Coord Coord
	Kind  EventKind
	Score int
}

// MatchState is the controller's bookkeeping, handed out by value.
type MatchState struct {
	Phase       Phase
	Round       int
	TotalRounds int
	Scores      map[Side]int
}

func (s MatchState) clone() MatchState {
	out := s
	out.Scores = map[Side]int{Human: s.Scores[Human], Automated: s.Scores[Automated]}
	return out
}

// Result is the record of a finished match.
type Result struct {
	ID             string    `json:"id"`
	Player         string    `json:"player"`
	Mode           string    `json:"mode"`
	Seed           int64     `json:"seed"`
	HumanScore     int       `json:"humanScore"`
	AutomatedScore int       `json:"automatedScore"`
	Outcome        Outcome   `json:"outcome"`
	Rounds         int       `json:"rounds"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// Config describes a match. Zero values fall back to the standard dimensions.
type Config struct {
	Size   int
	Ships  int
	Player string
	Mode   string
	Seed   int64
}

func (c Config) withDefaults() Config {
	if c.Size == 0 {
		c.Size = DefaultSize
	}
	if c.Ships == 0 {
		c.Ships = DefaultShips
	}
	if c.Player == "" {
		c.Player = "Player"
	}
	if c.Mode == "" {
		c.Mode = "classic"
	}
	return c
}

// Option customises a Match.
type Option func(*Match)

// WithLogger routes per-guess debug logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Match) { m.log = l }
}

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Match) { m.now = now }
}

// Match owns both boards and the round loop.
type Match struct {
	id       string
	cfg      Config
	rng      Rand
	input    Input
	display  Display
	log      zerolog.Logger
	now      func() time.Time
	human    *Board // fired at by the automated side
	opponent *Board // fired at by the human
	state    MatchState
}

// NewMatch builds both boards and places their ships. The human board is
// placed first, so a seeded Rand yields the same layouts every time.
func NewMatch(cfg Config, rng Rand, in Input, out Display, opts ...Option) (*Match, error) {
	cfg = cfg.withDefaults()
	m := &Match{
		id:      uuid.NewString(),
		cfg:     cfg,
		rng:     rng,
		input:   in,
		display: out,
		log:     zerolog.Nop(),
		now:     time.Now,
		state: MatchState{
			Phase:  PhaseSetup,
			Scores: map[Side]int{Human: 0, Automated: 0},
		},
	}
	for _, o := range opts {
		o(m)
	}

	var err error
	if m.human, err = NewBoard(cfg.Size, cfg.Ships, cfg.Player, true, rng); err != nil {
		return nil, err
	}
	if m.opponent, err = NewBoard(cfg.Size, cfg.Ships, "Computer", false, rng); err != nil {
		return nil, err
	}
	if err := m.human.PlaceShips(); err != nil {
		return nil, err
	}
	if err := m.opponent.PlaceShips(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) ID() string { return m.id }

// HumanBoard is the board the automated side fires at.
func (m *Match) HumanBoard() *Board { return m.human }

// OpponentBoard is the board the human fires at.
func (m *Match) OpponentBoard() *Board { return m.opponent }

// State returns a copy of the current bookkeeping.
func (m *Match) State() MatchState { return m.state.clone() }

// Run plays totalRounds rounds and returns the result.
//
// totalRounds must be between 1 and size*size so that both sides always have
// a fresh square to fire at. A match runs once; a second call returns
// ErrMatchOver. Errors from the input abort the match.
func (m *Match) Run(ctx context.Context, totalRounds int) (Result, error) {
	if m.state.Phase != PhaseSetup {
		return Result{}, ErrMatchOver
	}
	if limit := m.cfg.Size * m.cfg.Size; totalRounds < 1 || totalRounds > limit {
		return Result{}, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidRounds, totalRounds, limit)
	}

	started := m.now()
	m.state.TotalRounds = totalRounds
	m.log.Debug().Str("match", m.id).Int("rounds", totalRounds).Int64("seed", m.cfg.Seed).Msg("match started")

	for round := 1; round <= totalRounds; round++ {
		m.state.Phase = PhaseRound
		m.state.Round = round

		m.display.Boards(m.State(),
			m.human.view(false),
			m.opponent.view(true),
		)

		if err := m.humanTurn(ctx); err != nil {
			m.state.Phase = PhaseAborted
			return Result{}, fmt.Errorf("round %d: %w", round, err)
		}
		if err := m.automatedTurn(); err != nil {
			m.state.Phase = PhaseAborted
			return Result{}, fmt.Errorf("round %d: %w", round, err)
		}
	}

	m.state.Phase = PhaseFinished
	res := Result{
		ID:             m.id,
		Player:         m.cfg.Player,
		Mode:           m.cfg.Mode,
		Seed:           m.cfg.Seed,
		HumanScore:     m.state.Scores[Human],
		AutomatedScore: m.state.Scores[Automated],
		Outcome:        Decide(m.state.Scores[Human], m.state.Scores[Automated]),
		Rounds:         totalRounds,
		StartedAt:      started.UTC(),
		FinishedAt:     m.now().UTC(),
	}
	m.log.Debug().Str("match", m.id).Str("outcome", string(res.Outcome)).
		Int("human", res.HumanScore).Int("automated", res.AutomatedScore).Msg("match finished")
	m.display.Summary(res)
	return res, nil
}

// humanTurn asks for coordinates until one has not been fired at before.
// Progress relies on the input eventually naming a fresh square; the grid is
// finite and Run guarantees at least one remains.
func (m *Match) humanTurn(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := m.input.NextGuess(ctx, m.opponent.Size())
		if err != nil {
			return fmt.Errorf("human guess: %w", err)
		}
		res, err := m.opponent.ResolveGuess(c)
		if err != nil {
			return fmt.Errorf("human guess: %w", err)
		}
		if !res.OK() {
			m.display.Event(Event{Round: m.state.Round, Side: Human, Coord: c, Kind: EventRepeat, Score: m.state.Scores[Human]})
			continue
		}
		m.record(Human, res)
		return nil
	}
}

// automatedTurn fires at a uniformly random fresh square of the human board.
func (m *Match) automatedTurn() error {
	c, err := m.pickTarget(m.human)
	if err != nil {
		return fmt.Errorf("automated guess: %w", err)
	}
	res, err := m.human.ResolveGuess(c)
	if err != nil {
		return fmt.Errorf("automated guess: %w", err)
	}
	if res.AlreadyGuessed {
		// pickTarget only returns fresh squares.
		return fmt.Errorf("automated guess: %w", res.Err())
	}
	m.record(Automated, res)
	return nil
}

// pickTarget draws squares over the whole grid and rejects those already
// fired at. After size*size rejections it picks directly among the squares
// still open, which bounds the loop without biasing the choice.
func (m *Match) pickTarget(b *Board) (Coord, error) {
	if b.Remaining() == 0 {
		return Coord{}, ErrBoardExhausted
	}
	n := b.Size()
	for attempt := 0; attempt < n*n; attempt++ {
		c := Coord{Row: m.rng.Intn(n), Col: m.rng.Intn(n)}
		if !b.HasGuessed(c) {
			return c, nil
		}
	}
	open := b.unguessed()
	return open[m.rng.Intn(len(open))], nil
}

func (m *Match) record(side Side, res GuessResult) {
	kind := EventMiss
	if res.Hit {
		kind = EventHit
		m.state.Scores[side]++
	}
	m.log.Debug().Str("match", m.id).Int("round", m.state.Round).Str("side", string(side)).
		Int("row", res.Coord.Row).Int("col", res.Coord.Col).Bool("hit", res.Hit).Msg("guess resolved")
	m.display.Event(Event{Round: m.state.Round, Side: side, Coord: res.Coord, Kind: kind, Score: m.state.Scores[side]})
}
