package game

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

// scriptedInput returns fixed human guesses, then io.EOF.
type scriptedInput struct {
	guesses []Coord
	next    int
}

func (s *scriptedInput) NextGuess(ctx context.Context, size int) (Coord, error) {
	if s.next >= len(s.guesses) {
		return Coord{}, io.EOF
	}
	c := s.guesses[s.next]
	s.next++
	return c, nil
}

// sweepInput fires at every square in row-major order.
type sweepInput struct{ i int }

func (s *sweepInput) NextGuess(ctx context.Context, size int) (Coord, error) {
	c := Coord{Row: s.i / size, Col: s.i % size}
	s.i++
	return c, nil
}

type recordingDisplay struct {
	states  []MatchState
	views   [][]View
	events  []Event
	summary *Result
}

func (d *recordingDisplay) Boards(state MatchState, views ...View) {
	d.states = append(d.states, state)
	d.views = append(d.views, views)
}
func (d *recordingDisplay) Event(e Event)    { d.events = append(d.events, e) }
func (d *recordingDisplay) Summary(r Result) { d.summary = &r }

// standard fixture: 5x5, 3 ships, human ships on row 0, computer ships on row 4.
var (
	humanShips    = []Coord{{0, 0}, {0, 1}, {0, 2}}
	opponentShips = []Coord{{4, 0}, {4, 1}, {4, 2}}
	humanMisses   = []Coord{{1, 1}, {2, 2}, {3, 3}, {1, 3}, {2, 4}}
)

func newScriptedMatch(t *testing.T, in Input, auto ...Coord) (*Match, *recordingDisplay, *scriptedRand) {
	t.Helper()
	vals := append(coords(humanShips...), coords(opponentShips...)...)
	vals = append(vals, coords(auto...)...)
	rng := &scriptedRand{vals: vals}
	d := &recordingDisplay{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewMatch(Config{Size: 5, Ships: 3, Player: "Ada"}, rng, in, d,
		WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m, d, rng
}

func TestRunScriptedOutcomes(t *testing.T) {
	cases := []struct {
		name          string
		human         []Coord
		auto          []Coord
		wantHuman     int
		wantAutomated int
		wantOutcome   Outcome
	}{
		{
			name:          "human wins",
			human:         []Coord{{4, 0}, {4, 1}, {4, 2}, {1, 1}, {2, 2}, {3, 3}},
			auto:          []Coord{{0, 0}, {0, 1}, {3, 4}, {2, 4}, {1, 4}, {1, 3}},
			wantHuman:     3,
			wantAutomated: 2,
			wantOutcome:   HumanWin,
		},
		{
			name:          "tie",
			human:         []Coord{{4, 0}, {1, 1}, {4, 1}, {2, 2}, {4, 2}, {3, 3}},
			auto:          []Coord{{3, 4}, {0, 0}, {2, 4}, {0, 1}, {1, 4}, {0, 2}},
			wantHuman:     3,
			wantAutomated: 3,
			wantOutcome:   Tie,
		},
		{
			name:          "automated wins",
			human:         append([]Coord{{4, 0}}, humanMisses...),
			auto:          []Coord{{0, 2}, {3, 4}, {0, 0}, {2, 4}, {1, 4}, {1, 3}},
			wantHuman:     1,
			wantAutomated: 2,
			wantOutcome:   AutomatedWin,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, d, _ := newScriptedMatch(t, &scriptedInput{guesses: tc.human}, tc.auto...)
			res, err := m.Run(context.Background(), 6)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.HumanScore != tc.wantHuman || res.AutomatedScore != tc.wantAutomated || res.Outcome != tc.wantOutcome {
				t.Fatalf("result = %d/%d %s, want %d/%d %s",
					res.HumanScore, res.AutomatedScore, res.Outcome, tc.wantHuman, tc.wantAutomated, tc.wantOutcome)
			}
			if res.Player != "Ada" || res.Rounds != 6 || res.ID != m.ID() || res.Mode != "classic" {
				t.Fatalf("unexpected result metadata: %+v", res)
			}
			if d.summary == nil || *d.summary != res {
				t.Fatalf("summary not delivered to display: %+v", d.summary)
			}
			if got := m.State().Phase; got != PhaseFinished {
				t.Fatalf("phase = %s, want finished", got)
			}
			if m.OpponentBoard().Hits() != res.HumanScore || m.HumanBoard().Hits() != res.AutomatedScore {
				t.Fatalf("board hits disagree with scores")
			}
		})
	}
}

func TestRunRoundsInOrderWithBothBoards(t *testing.T) {
	human := []Coord{{4, 0}, {4, 1}, {4, 2}, {1, 1}, {2, 2}, {3, 3}}
	auto := []Coord{{0, 0}, {0, 1}, {3, 4}, {2, 4}, {1, 4}, {1, 3}}
	m, d, _ := newScriptedMatch(t, &scriptedInput{guesses: human}, auto...)
	if _, err := m.Run(context.Background(), 6); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(d.states) != 6 {
		t.Fatalf("Boards called %d times, want 6", len(d.states))
	}
	for i, st := range d.states {
		if st.Round != i+1 || st.TotalRounds != 6 || st.Phase != PhaseRound {
			t.Fatalf("round %d state = %+v", i+1, st)
		}
	}
	// round 1: own ships visible, opponent ships hidden
	first := d.views[0]
	if first[0].Label != "Ada" || string(first[0].Grid[0]) != "SSS~~" {
		t.Fatalf("own board view = %q %q", first[0].Label, string(first[0].Grid[0]))
	}
	if first[1].Label != "Computer" || string(first[1].Grid[4]) != "~~~~~" {
		t.Fatalf("opponent board view = %q %q", first[1].Label, string(first[1].Grid[4]))
	}
	// round 2: the first exchange is visible on both boards
	second := d.views[1]
	if string(second[0].Grid[0]) != "HSS~~" || string(second[1].Grid[4]) != "H~~~~" {
		t.Fatalf("round 2 views = %q / %q", string(second[0].Grid[0]), string(second[1].Grid[4]))
	}

	if second[0].Afloat != 2 || second[1].Afloat != 2 {
		t.Fatalf("round 2 afloat = %d / %d, want 2 / 2", second[0].Afloat, second[1].Afloat)
	}
	if first[0].Afloat != 3 || first[1].Afloat != 3 {
		t.Fatalf("round 1 afloat = %d / %d, want 3 / 3", first[0].Afloat, first[1].Afloat)
	}

	// events alternate human, automated
	if len(d.events) != 12 {
		t.Fatalf("got %d events, want 12", len(d.events))
	}
	for i, e := range d.events {
		want := Human
		if i%2 == 1 {
			want = Automated
		}
		if e.Side != want || e.Round != i/2+1 {
			t.Fatalf("event %d = %+v, want side %s round %d", i, e, want, i/2+1)
		}
	}
}

func TestRunRetriesHumanRepeatVisibly(t *testing.T) {
	human := []Coord{{4, 0}, {4, 0}, {4, 1}, {1, 1}, {2, 2}, {3, 3}, {1, 3}}
	auto := []Coord{{3, 4}, {2, 4}, {1, 4}, {1, 2}, {2, 1}, {3, 1}}
	m, d, _ := newScriptedMatch(t, &scriptedInput{guesses: human}, auto...)
	res, err := m.Run(context.Background(), 6)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.HumanScore != 2 {
		t.Fatalf("human score = %d, want 2", res.HumanScore)
	}
	var repeats []Event
	for _, e := range d.events {
		if e.Kind == EventRepeat {
			repeats = append(repeats, e)
		}
	}
	if len(repeats) != 1 || repeats[0].Side != Human || repeats[0].Coord != (Coord{4, 0}) || repeats[0].Round != 2 {
		t.Fatalf("repeat events = %+v", repeats)
	}
	if got := len(m.OpponentBoard().Guesses()); got != 6 {
		t.Fatalf("opponent board has %d guesses, want 6", got)
	}
}

func TestRunRetriesAutomatedRepeatSilently(t *testing.T) {
	human := append([]Coord{{4, 0}}, humanMisses...)
	// round 3 draws (0,0) again before settling on (2,4)
	auto := []Coord{{0, 0}, {3, 4}, {0, 0}, {2, 4}, {1, 4}, {1, 3}, {1, 2}}
	m, d, rng := newScriptedMatch(t, &scriptedInput{guesses: human}, auto...)
	res, err := m.Run(context.Background(), 6)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, e := range d.events {
		if e.Kind == EventRepeat {
			t.Fatalf("automated repeat surfaced as event: %+v", e)
		}
	}
	want := []Coord{{0, 0}, {3, 4}, {2, 4}, {1, 4}, {1, 3}, {1, 2}}
	if got := m.HumanBoard().Guesses(); !reflect.DeepEqual(got, want) {
		t.Fatalf("automated guesses = %v, want %v", got, want)
	}
	if rng.calls != len(rng.vals) {
		t.Fatalf("consumed %d of %d draws", rng.calls, len(rng.vals))
	}
	if res.AutomatedScore != 1 {
		t.Fatalf("automated score = %d, want 1", res.AutomatedScore)
	}
}

func TestScoresAreMonotonic(t *testing.T) {
	m, err := NewMatch(Config{Size: 5, Ships: 3}, rand.New(rand.NewSource(99)), &sweepInput{}, &recordingDisplay{})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	d := m.display.(*recordingDisplay)
	res, err := m.Run(context.Background(), 25)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	last := map[Side]int{}
	for _, e := range d.events {
		want := last[e.Side]
		if e.Kind == EventHit {
			want++
		}
		if e.Score != want {
			t.Fatalf("event %+v: score %d, want %d", e, e.Score, want)
		}
		last[e.Side] = e.Score
	}
	// a full sweep finds every ship on both sides
	if res.HumanScore != 3 || res.AutomatedScore != 3 || res.Outcome != Tie {
		t.Fatalf("full sweep result = %+v", res)
	}
}

func TestSeededMatchIsDeterministic(t *testing.T) {
	play := func() (Result, []Coord, []Coord, []Event) {
		d := &recordingDisplay{}
		m, err := NewMatch(Config{Size: 5, Ships: 3, Seed: 2024}, rand.New(rand.NewSource(2024)), &sweepInput{}, d)
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}
		res, err := m.Run(context.Background(), 6)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res, m.HumanBoard().Ships(), m.OpponentBoard().Ships(), d.events
	}

	r1, hs1, os1, ev1 := play()
	r2, hs2, os2, ev2 := play()
	if !reflect.DeepEqual(hs1, hs2) || !reflect.DeepEqual(os1, os2) {
		t.Fatalf("ship placement differs between seeded runs")
	}
	if !reflect.DeepEqual(ev1, ev2) {
		t.Fatalf("event sequence differs between seeded runs")
	}
	if r1.HumanScore != r2.HumanScore || r1.AutomatedScore != r2.AutomatedScore || r1.Outcome != r2.Outcome {
		t.Fatalf("results differ: %+v vs %+v", r1, r2)
	}
	if r1.Outcome != Decide(r1.HumanScore, r1.AutomatedScore) {
		t.Fatalf("outcome %s does not match %d vs %d", r1.Outcome, r1.HumanScore, r1.AutomatedScore)
	}
	if r1.Seed != 2024 {
		t.Fatalf("seed not carried into result: %d", r1.Seed)
	}
}

// countingRand always draws zero and counts calls.
type countingRand struct{ calls int }

func (c *countingRand) Intn(n int) int { c.calls++; return 0 }

func TestPickTargetIsBounded(t *testing.T) {
	rng := &countingRand{}
	m := &Match{rng: rng}
	b, _ := NewBoard(4, 1, "p", true, rng)
	_ = b.PlaceShips()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if r == 3 && c == 3 {
				continue
			}
			_, _ = b.ResolveGuess(Coord{r, c})
		}
	}

	rng.calls = 0
	got, err := m.pickTarget(b)
	if err != nil {
		t.Fatalf("pickTarget: %v", err)
	}
	if got != (Coord{3, 3}) {
		t.Fatalf("pickTarget = %s, want (3, 3)", got)
	}
	if rng.calls > 2*16+1 {
		t.Fatalf("pickTarget used %d draws, want at most %d", rng.calls, 2*16+1)
	}

	_, _ = b.ResolveGuess(Coord{3, 3})
	if _, err := m.pickTarget(b); !errors.Is(err, ErrBoardExhausted) {
		t.Fatalf("pickTarget on full board err = %v, want ErrBoardExhausted", err)
	}
}

func TestRunValidatesRoundsAndRunsOnce(t *testing.T) {
	for _, n := range []int{0, -1, 26} {
		m, _, _ := newScriptedMatch(t, &sweepInput{})
		if _, err := m.Run(context.Background(), n); !errors.Is(err, ErrInvalidRounds) {
			t.Fatalf("Run(%d) err = %v, want ErrInvalidRounds", n, err)
		}
		if m.State().Phase != PhaseSetup {
			t.Fatalf("Run(%d) left phase %s", n, m.State().Phase)
		}
	}

	human := []Coord{{4, 0}, {4, 1}, {4, 2}, {1, 1}, {2, 2}, {3, 3}}
	auto := []Coord{{0, 0}, {0, 1}, {3, 4}, {2, 4}, {1, 4}, {1, 3}}
	m, _, _ := newScriptedMatch(t, &scriptedInput{guesses: human}, auto...)
	if _, err := m.Run(context.Background(), 6); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := m.Run(context.Background(), 6); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("second Run err = %v, want ErrMatchOver", err)
	}
}

func TestRunAbortsOnInputFailure(t *testing.T) {
	m, d, _ := newScriptedMatch(t, &scriptedInput{guesses: []Coord{{1, 1}}}, Coord{3, 3})
	_, err := m.Run(context.Background(), 6)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Run err = %v, want io.EOF", err)
	}
	if m.State().Phase != PhaseAborted {
		t.Fatalf("phase = %s, want aborted", m.State().Phase)
	}
	if d.summary != nil {
		t.Fatalf("aborted match produced a summary")
	}
	if _, err := m.Run(context.Background(), 6); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("Run after abort err = %v, want ErrMatchOver", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	m, _, _ := newScriptedMatch(t, &sweepInput{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Run(ctx, 6); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
}

func TestNewMatchRejectsInvalidShipConfiguration(t *testing.T) {
	_, err := NewMatch(Config{Size: 3, Ships: 9}, rand.New(rand.NewSource(1)), &sweepInput{}, &recordingDisplay{})
	if !errors.Is(err, ErrInvalidShipConfiguration) {
		t.Fatalf("NewMatch err = %v, want ErrInvalidShipConfiguration", err)
	}
}
