package typing

import (
	"strings"
	"time"
)

// Session is the complete progress state of one typing attempt over a fixed text.
// The zero value is an empty, not-started session with every policy off.
type Session struct {
	chars      []string
	charStates []CharState
	// next is the index of the slot the next keystroke is compared against,
	// i.e. cursor+1, so that the zero value has cursor -1.
	next       int
	correct    int
	errors     int
	keystrokes int
	phase      Phase
	startTime  time.Time
	endTime    time.Time
	opts       Options
}

// New creates a not-started session over text.
func New(text string, opts Options) Session {
	return NewChars(SplitChars(text), opts)
}

// NewChars creates a not-started session over pre-split characters.
func NewChars(chars []string, opts Options) Session {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	owned := make([]string, len(chars))
	copy(owned, chars)
	return Session{
		chars:      owned,
		charStates: make([]CharState, len(owned)),
		opts:       opts,
	}
}

// Len returns the number of characters in the text.
func (s Session) Len() int { return len(s.chars) }

// Text returns the target text.
func (s Session) Text() string { return strings.Join(s.chars, "") }

// Chars returns a copy of the target characters.
func (s Session) Chars() []string {
	out := make([]string, len(s.chars))
	copy(out, s.chars)
	return out
}

// Char returns the character at index i, or "" when out of range.
func (s Session) Char(i int) string {
	if i < 0 || i >= len(s.chars) {
		return ""
	}
	return s.chars[i]
}

// CharStates returns a copy of the per-character marks.
func (s Session) CharStates() []CharState {
	out := make([]CharState, len(s.charStates))
	copy(out, s.charStates)
	return out
}

// CharState returns the mark at index i, or Untested when out of range.
func (s Session) CharState(i int) CharState {
	if i < 0 || i >= len(s.charStates) {
		return Untested
	}
	return s.charStates[i]
}

// Cursor returns the index of the last committed character, -1 before any commit.
func (s Session) Cursor() int { return s.next - 1 }

// CurrentChar returns the character at the cursor, or "" when the cursor is -1.
func (s Session) CurrentChar() string { return s.Char(s.Cursor()) }

// Correct returns the number of correctly typed characters.
func (s Session) Correct() int { return s.correct }

// Errors returns the error count under the session's counting mode.
func (s Session) Errors() int { return s.errors }

// Keystrokes returns the number of compared keystrokes.
func (s Session) Keystrokes() int { return s.keystrokes }

// Phase returns the lifecycle stage.
func (s Session) Phase() Phase { return s.phase }

// StartTime returns when typing started, if it has.
func (s Session) StartTime() (time.Time, bool) { return s.startTime, !s.startTime.IsZero() }

// EndTime returns when the session ended, if it has.
func (s Session) EndTime() (time.Time, bool) { return s.endTime, !s.endTime.IsZero() }

// Options returns the session policies.
func (s Session) Options() Options { return s.opts }

func (s Session) now() time.Time {
	if s.opts.Clock == nil {
		return time.Now()
	}
	return s.opts.Clock.Now()
}

// withStates returns a shallow copy of s that owns its own charStates slice.
func (s Session) withStates() Session {
	states := make([]CharState, len(s.charStates))
	copy(states, s.charStates)
	s.charStates = states
	return s
}
