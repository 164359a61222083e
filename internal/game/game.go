// Package game owns the mutable session slot that drives a typing UI.
//
// A Game holds exactly one typing.Session, exposes each transition as a method,
// replaces the session when the target text changes, and only allows cursor
// seeking once the attempt has ended.
package game

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/typing"
)

// CharTally counts outcomes for one target character within an attempt.
type CharTally struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// Result summarizes a finished attempt.
type Result struct {
	AttemptID  string
	Text       string
	Length     int
	StartedAt  time.Time
	EndedAt    time.Time
	Duration   time.Duration
	Correct    int
	Errors     int
	Keystrokes int
	// Completed is false when the attempt was ended explicitly.
	Completed bool
	Options   typing.Options
	Chars     []CharTally
}

// Option customizes a Game.
type Option func(*Game)

// WithOnEnd registers fn to run once each time an attempt reaches the ended phase.
func WithOnEnd(fn func(Result)) Option {
	return func(g *Game) { g.onEnd = fn }
}

// WithLogger overrides the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithIDFunc overrides attempt ID generation.
func WithIDFunc(fn func() string) Option {
	return func(g *Game) { g.newID = fn }
}

// Game is the single-owner holder of a typing session. It is not safe for
// concurrent use.
type Game struct {
	session   typing.Session
	opts      typing.Options
	attemptID string

	tallies       map[string]*CharTally
	lastCorrectAt time.Time

	onEnd func(Result)
	newID func() string
	log   *slog.Logger
}

// New creates a Game over text.
func New(text string, opts typing.Options, options ...Option) *Game {
	if opts.Clock == nil {
		opts.Clock = typing.RealClock{}
	}
	g := &Game{
		opts:  opts,
		newID: uuid.NewString,
		log:   logging.For("game"),
	}
	for _, opt := range options {
		opt(g)
	}
	g.replace(typing.New(text, opts))
	return g
}

// State returns the current session value.
func (g *Game) State() typing.Session { return g.session }

// AttemptID identifies the current attempt. It changes on reset and on new text.
func (g *Game) AttemptID() string { return g.attemptID }

// SetText replaces the session when text differs from the current text.
// It reports whether a new session was created.
func (g *Game) SetText(text string) bool {
	if text == g.session.Text() {
		return false
	}
	g.replace(typing.New(text, g.opts))
	g.log.Debug("text replaced", "attempt", g.attemptID, "length", g.session.Len())
	return true
}

// Insert types the first character of input. Empty input skips one slot.
func (g *Game) Insert(input string) {
	g.dispatch(typing.Insert(typing.FirstChar(input)))
}

// Delete removes the last character, or the current word when wholeWord is set.
func (g *Game) Delete(wholeWord bool) {
	g.dispatch(typing.Delete(wholeWord))
}

// Reset restarts the attempt over the same text.
func (g *Game) Reset() {
	g.dispatch(typing.Reset())
}

// End force-terminates the attempt.
func (g *Game) End() {
	g.dispatch(typing.End())
}

// SetCurrIndex moves the review cursor. It is only allowed after the attempt
// has ended and reports whether the cursor moved.
func (g *Game) SetCurrIndex(index int) bool {
	if g.session.Phase() != typing.Ended {
		return false
	}
	next, ok := g.session.Seek(index)
	if !ok {
		return false
	}
	g.session = next
	return true
}

// Duration returns the elapsed typing time of the current attempt.
func (g *Game) Duration() time.Duration { return g.session.Duration() }

func (g *Game) replace(s typing.Session) {
	g.session = s
	g.attemptID = g.newID()
	g.tallies = map[string]*CharTally{}
	g.lastCorrectAt = time.Time{}
}

func (g *Game) dispatch(cmd typing.Command) {
	prev := g.session
	next := typing.Apply(prev, cmd)
	if cmd.Kind == typing.CmdReset {
		g.replace(next)
		g.log.Debug("attempt reset", "attempt", g.attemptID)
		return
	}
	if cmd.Kind == typing.CmdInsert {
		g.tally(prev, next)
	}
	g.session = next
	g.log.Debug("transition",
		"cmd", cmd.Kind.String(),
		"phase", next.Phase().String(),
		"cursor", next.Cursor(),
		"correct", next.Correct(),
		"errors", next.Errors(),
	)
	if prev.Phase() != typing.Ended && next.Phase() == typing.Ended {
		g.finish(cmd.Kind != typing.CmdEnd)
	}
}

// tally attributes a compared keystroke to the expected character. Spaces are
// not tallied.
func (g *Game) tally(prev, next typing.Session) {
	if next.Keystrokes() == prev.Keystrokes() {
		return
	}
	idx := prev.Cursor() + 1
	expected := prev.Char(idx)
	if expected == "" || expected == " " {
		return
	}
	entry, ok := g.tallies[expected]
	if !ok {
		entry = &CharTally{Char: expected}
		g.tallies[expected] = entry
	}
	if next.CharState(idx) != typing.Correct || prev.CharState(idx) == typing.Correct {
		if next.CharState(idx) == typing.Incorrect {
			entry.Incorrect++
		}
		return
	}
	entry.Correct++
	now := g.opts.Clock.Now()
	if !g.lastCorrectAt.IsZero() {
		entry.LatencySumMs += now.Sub(g.lastCorrectAt).Milliseconds()
		entry.LatencyCount++
	}
	g.lastCorrectAt = now
}

func (g *Game) finish(completed bool) {
	res := g.result(completed)
	g.log.Info("attempt ended",
		"attempt", res.AttemptID,
		"completed", res.Completed,
		"duration_ms", res.Duration.Milliseconds(),
		"correct", res.Correct,
		"errors", res.Errors,
	)
	if g.onEnd != nil {
		g.onEnd(res)
	}
}

func (g *Game) result(completed bool) Result {
	s := g.session
	start, _ := s.StartTime()
	end, _ := s.EndTime()
	chars := make([]CharTally, 0, len(g.tallies))
	for _, entry := range g.tallies {
		chars = append(chars, *entry)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Char < chars[j].Char })
	return Result{
		AttemptID:  g.attemptID,
		Text:       s.Text(),
		Length:     s.Len(),
		StartedAt:  start,
		EndedAt:    end,
		Duration:   s.Duration(),
		Correct:    s.Correct(),
		Errors:     s.Errors(),
		Keystrokes: s.Keystrokes(),
		Completed:  completed,
		Options:    s.Options(),
		Chars:      chars,
	}
}
