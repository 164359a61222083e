// Package typing implements the typing-progress state machine.
//
// A Session is an immutable value. Every transition returns a new Session and
// leaves its receiver untouched, so callers may keep old values for replay or undo.
package typing

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the coarse lifecycle stage of a session.
type Phase int

const (
	// NotStarted means no character has been inserted yet.
	NotStarted Phase = iota
	// Started means typing is in progress.
	Started
	// Ended means the text was completed or the session was ended explicitly.
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Started:
		return "started"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CharState marks a single character slot.
type CharState int

const (
	// Untested slots have not been typed yet.
	Untested CharState = iota
	// Correct slots were typed correctly.
	Correct
	// Incorrect slots were mistyped.
	Incorrect
)

func (c CharState) String() string {
	switch c {
	case Untested:
		return "untested"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("charstate(%d)", int(c))
	}
}

// ErrorCountMode selects how repeated mistakes on one slot are counted.
type ErrorCountMode int

const (
	// EveryTime counts every wrong keystroke.
	EveryTime ErrorCountMode = iota
	// Once counts a wrong slot a single time until it is corrected or deleted.
	Once
)

func (m ErrorCountMode) String() string {
	switch m {
	case EveryTime:
		return "everytime"
	case Once:
		return "once"
	default:
		return fmt.Sprintf("errorcountmode(%d)", int(m))
	}
}

// ParseErrorCountMode parses "everytime" or "once" (case-insensitive).
func ParseErrorCountMode(s string) (ErrorCountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "everytime", "every-time", "":
		return EveryTime, nil
	case "once":
		return Once, nil
	default:
		return EveryTime, fmt.Errorf("unknown error count mode %q (want everytime or once)", s)
	}
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Options configures the policies of a session. They are fixed for its lifetime.
type Options struct {
	// SkipWordOnSpace jumps to the next space when a space is typed mid-word.
	SkipWordOnSpace bool
	// PauseOnError keeps the cursor in place after a wrong keystroke.
	PauseOnError bool
	// CountErrors selects the error counting discipline.
	CountErrors ErrorCountMode
	// Clock is read at start, completion and End. Nil means RealClock.
	Clock Clock
}

// DefaultOptions returns skip-word-on-space enabled, no pausing, and EveryTime counting.
func DefaultOptions() Options {
	return Options{
		SkipWordOnSpace: true,
		PauseOnError:    false,
		CountErrors:     EveryTime,
	}
}
