package typing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pangram = "The quick brown fox jumps over the lazy dog"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newSession(text string, mutate func(*Options)) (Session, *fakeClock) {
	clock := newClock()
	opts := DefaultOptions()
	opts.Clock = clock
	if mutate != nil {
		mutate(&opts)
	}
	return New(text, opts), clock
}

func typeAll(s Session, text string) Session {
	for _, c := range SplitChars(text) {
		s = s.Insert(c)
	}
	return s
}

func statesOf(n int, marks map[int]CharState) []CharState {
	out := make([]CharState, n)
	for i, m := range marks {
		out[i] = m
	}
	return out
}

func TestNewSessionInitialState(t *testing.T) {
	s, _ := newSession(pangram, nil)

	require.Equal(t, 43, s.Len())
	require.Equal(t, pangram, s.Text())
	require.Equal(t, make([]CharState, 43), s.CharStates())
	require.Equal(t, -1, s.Cursor())
	require.Equal(t, "", s.CurrentChar())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 0, s.Errors())
	require.Equal(t, 0, s.Keystrokes())
	require.Equal(t, NotStarted, s.Phase())
	_, started := s.StartTime()
	require.False(t, started)
	_, ended := s.EndTime()
	require.False(t, ended)
	require.True(t, s.Options().SkipWordOnSpace)
	require.False(t, s.Options().PauseOnError)
	require.Equal(t, EveryTime, s.Options().CountErrors)
}

func TestZeroSessionIsEmptyAndNotStarted(t *testing.T) {
	var s Session
	require.Equal(t, -1, s.Cursor())
	require.Equal(t, NotStarted, s.Phase())
	require.Equal(t, time.Duration(0), s.Duration())
}

func TestInsertCorrectCharacter(t *testing.T) {
	s, clock := newSession(pangram, nil)
	s = s.Insert("T")

	require.Equal(t, statesOf(43, map[int]CharState{0: Correct}), s.CharStates())
	require.Equal(t, 1, s.Correct())
	require.Equal(t, 0, s.Errors())
	require.Equal(t, 1, s.Keystrokes())
	require.Equal(t, "T", s.CurrentChar())
	require.Equal(t, Started, s.Phase())
	require.Equal(t, 0, s.Cursor())
	start, ok := s.StartTime()
	require.True(t, ok)
	require.Equal(t, clock.now, start)
}

func TestInsertIncorrectCharacter(t *testing.T) {
	s, _ := newSession(pangram, nil)
	s = s.Insert("Q")

	require.Equal(t, statesOf(43, map[int]CharState{0: Incorrect}), s.CharStates())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 1, s.Errors())
	require.Equal(t, "T", s.CurrentChar())
	require.Equal(t, Started, s.Phase())
	require.Equal(t, 0, s.Cursor())
}

func TestInsertDoesNotMutateReceiver(t *testing.T) {
	before, _ := newSession("abc", nil)
	after := before.Insert("a")

	require.Equal(t, Untested, before.CharState(0))
	require.Equal(t, -1, before.Cursor())
	require.Equal(t, Correct, after.CharState(0))
}

func TestInsertNullLetterSkipsSlot(t *testing.T) {
	s, _ := newSession("abc", nil)
	s = s.Insert("")

	require.Equal(t, 0, s.Cursor())
	require.Equal(t, "a", s.CurrentChar())
	require.Equal(t, Untested, s.CharState(0))
	require.Equal(t, 0, s.Keystrokes())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 0, s.Errors())
	require.Equal(t, Started, s.Phase())
}

func TestDeleteCharacter(t *testing.T) {
	s, _ := newSession(pangram, nil)
	s = s.Insert("Q").Delete(false)

	require.Equal(t, make([]CharState, 43), s.CharStates())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 1, s.Errors(), "every-time counting keeps deleted errors")
	require.Equal(t, "", s.CurrentChar())
	require.Equal(t, Started, s.Phase())
	require.Equal(t, -1, s.Cursor())
	_, started := s.StartTime()
	require.True(t, started)
}

func TestDeleteCharacterOnceModeRetractsError(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.CountErrors = Once })
	s = s.Insert("Q").Delete(false)

	require.Equal(t, 0, s.Errors())
	require.Equal(t, -1, s.Cursor())
}

func TestDeleteWord(t *testing.T) {
	s, _ := newSession(pangram, nil)
	s = s.Insert("T").Insert("H").Insert("W").Delete(true)

	require.Equal(t, make([]CharState, 43), s.CharStates())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, "", s.CurrentChar())
	require.Equal(t, Started, s.Phase())
	require.Equal(t, -1, s.Cursor())
}

func TestDeleteWordStopsAtPreviousSpace(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.CountErrors = Once })
	s = typeAll(s, "The qu")
	require.Equal(t, 5, s.Cursor())

	s = s.Delete(true)

	require.Equal(t, 3, s.Cursor())
	require.Equal(t, " ", s.CurrentChar())
	require.Equal(t, 4, s.Correct())
	require.Equal(t, Untested, s.CharState(4))
	require.Equal(t, Untested, s.CharState(5))
	require.Equal(t, Correct, s.CharState(3))
}

func TestDeleteWordOnSpaceKeepsCursor(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.SkipWordOnSpace = false })
	s = typeAll(s, "The ")
	require.Equal(t, 3, s.Cursor())

	s = s.Delete(true)

	require.Equal(t, 3, s.Cursor())
	require.Equal(t, 4, s.Correct())
}

func TestDeleteIsNoOpBeforeStartAndAfterEnd(t *testing.T) {
	s, _ := newSession("ab", nil)
	require.Equal(t, s, s.Delete(false))

	started := s.Insert("")
	started, ok := started.Seek(-1)
	require.True(t, ok)
	require.Equal(t, started, started.Delete(true), "nothing committed")

	done := typeAll(s, "ab")
	require.Equal(t, Ended, done.Phase())
	require.Equal(t, done, done.Delete(false))
}

func TestCompletionWithoutErrors(t *testing.T) {
	s, clock := newSession(pangram, nil)
	s = s.Insert("T")
	clock.Advance(9 * time.Second)
	s = typeAll(s, pangram[1:])

	require.Equal(t, statesOf(43, func() map[int]CharState {
		m := map[int]CharState{}
		for i := 0; i < 43; i++ {
			m[i] = Correct
		}
		return m
	}()), s.CharStates())
	require.Equal(t, 43, s.Correct())
	require.Equal(t, 0, s.Errors())
	require.Equal(t, 43, s.Keystrokes())
	require.Equal(t, "g", s.CurrentChar())
	require.Equal(t, Ended, s.Phase())
	require.Equal(t, 42, s.Cursor())
	require.Equal(t, 9*time.Second, s.Duration())
}

func TestCompletionAllErrors(t *testing.T) {
	s, _ := newSession(pangram, nil)
	for range s.Chars() {
		s = s.Insert("1")
	}

	require.Equal(t, 0, s.Correct())
	require.Equal(t, 43, s.Errors())
	require.Equal(t, "g", s.CurrentChar())
	require.Equal(t, Ended, s.Phase())
	require.Equal(t, 42, s.Cursor())
	for i, st := range s.CharStates() {
		require.Equalf(t, Incorrect, st, "slot %d", i)
	}
}

func TestInsertAfterEndIsNoOp(t *testing.T) {
	s, _ := newSession("hi", nil)
	s = typeAll(s, "hi")
	require.Equal(t, Ended, s.Phase())
	require.Equal(t, s, s.Insert("x"))
}

func TestSkipWordOnSpace(t *testing.T) {
	s, _ := newSession(pangram, nil)
	s = s.Insert(" ")

	require.Equal(t, 3, s.Cursor())
	require.Equal(t, 0, s.Keystrokes())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 0, s.Errors())
	require.Equal(t, Started, s.Phase())

	s = s.Insert("q")
	require.Equal(t, statesOf(43, map[int]CharState{4: Correct}), s.CharStates())
	require.Equal(t, 1, s.Correct())
	require.Equal(t, "q", s.CurrentChar())
	require.Equal(t, 4, s.Cursor())
	_, ended := s.EndTime()
	require.False(t, ended)
}

func TestSkipWordOnSpaceDisabled(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.SkipWordOnSpace = false })
	s = s.Insert(" ").Insert("q")

	require.Equal(t, statesOf(43, map[int]CharState{0: Incorrect, 1: Incorrect}), s.CharStates())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 2, s.Errors())
	require.Equal(t, "h", s.CurrentChar())
	require.Equal(t, 1, s.Cursor())
}

func TestSkipWordInLastWordEndsSession(t *testing.T) {
	s, _ := newSession("ab cd", nil)
	s = s.Insert("a").Insert(" ")
	require.Equal(t, 2, s.Cursor())

	s = s.Insert("c").Insert(" ")
	require.Equal(t, 4, s.Cursor())
	require.Equal(t, Ended, s.Phase())
	require.Equal(t, 2, s.Correct())
	require.Equal(t, 2, s.Keystrokes())
}

func TestSkipWordFromSpaceStaysPut(t *testing.T) {
	// The space search includes the cursor slot itself.
	s, _ := newSession("ab cd", nil)
	s = typeAll(s, "ab ")
	require.Equal(t, 2, s.Cursor())

	s = s.Insert(" ")
	require.Equal(t, 2, s.Cursor())
	require.Equal(t, 3, s.Keystrokes())
}

func TestSpaceOnSpaceIsTypedNormally(t *testing.T) {
	s, _ := newSession("a b", nil)
	s = s.Insert("a").Insert(" ")

	require.Equal(t, 1, s.Cursor())
	require.Equal(t, Correct, s.CharState(1))
	require.Equal(t, 2, s.Keystrokes())
}

func TestPauseOnError(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.PauseOnError = true })
	s = s.Insert("q")

	require.Equal(t, statesOf(43, map[int]CharState{0: Incorrect}), s.CharStates())
	require.Equal(t, 0, s.Correct())
	require.Equal(t, 1, s.Errors())
	require.Equal(t, "", s.CurrentChar())
	require.Equal(t, Started, s.Phase())
	require.Equal(t, -1, s.Cursor())
}

func TestPauseOnErrorRepeatedMistakes(t *testing.T) {
	every, _ := newSession("Hi", func(o *Options) { o.PauseOnError = true })
	every = every.Insert("X").Insert("Y").Insert("Z")
	require.Equal(t, 3, every.Errors())
	require.Equal(t, 3, every.Keystrokes())

	once, _ := newSession("Hi", func(o *Options) {
		o.PauseOnError = true
		o.CountErrors = Once
	})
	once = once.Insert("X").Insert("Y").Insert("Z")
	require.Equal(t, 1, once.Errors())
	require.Equal(t, 3, once.Keystrokes())
	require.Equal(t, -1, once.Cursor())
}

func TestCountOnceRetractsCorrectedError(t *testing.T) {
	s, _ := newSession("Hi", func(o *Options) {
		o.PauseOnError = true
		o.CountErrors = Once
	})
	s = s.Insert("X").Insert("H")

	require.Equal(t, 0, s.Errors())
	require.Equal(t, 1, s.Correct())
	require.Equal(t, 0, s.Cursor())
	require.Equal(t, Correct, s.CharState(0))
}

func TestEveryTimeKeepsCorrectedError(t *testing.T) {
	s, _ := newSession("Hi", func(o *Options) { o.PauseOnError = true })
	s = s.Insert("X").Insert("H")

	require.Equal(t, 1, s.Errors())
	require.Equal(t, 1, s.Correct())
	require.Equal(t, 0, s.Cursor())
}

func TestReset(t *testing.T) {
	s, _ := newSession(pangram, func(o *Options) { o.PauseOnError = true })
	fresh := s
	s = s.Insert("T").Insert("x").Reset()

	require.Equal(t, fresh, s)
	require.Equal(t, s, s.Reset())
	require.True(t, s.Options().PauseOnError)
}

func TestEnd(t *testing.T) {
	s, clock := newSession(pangram, nil)
	s = s.Insert("T")
	clock.Advance(2 * time.Second)
	s = s.End()

	require.Equal(t, Ended, s.Phase())
	require.Equal(t, 0, s.Cursor())
	require.Equal(t, 1, s.Correct())
	require.Equal(t, 2*time.Second, s.Duration())

	clock.Advance(time.Minute)
	again := s.End()
	require.Equal(t, s, again, "second End keeps the original end time")
}

func TestEndBeforeStartHasZeroDuration(t *testing.T) {
	s, _ := newSession("abc", nil)
	s = s.End()

	require.Equal(t, Ended, s.Phase())
	require.Equal(t, time.Duration(0), s.Duration())
}

func TestDurationWhileStarted(t *testing.T) {
	s, clock := newSession("abc", nil)
	require.Equal(t, time.Duration(0), s.Duration())

	s = s.Insert("a")
	clock.Advance(1500 * time.Millisecond)
	require.Equal(t, 1500*time.Millisecond, s.Duration())
	require.EqualValues(t, 1500, s.Duration().Milliseconds())
}

func TestSeekBounds(t *testing.T) {
	s, _ := newSession("0123456789", nil)
	s = typeAll(s, "0123456789")

	moved, ok := s.Seek(9)
	require.True(t, ok)
	require.Equal(t, 9, moved.Cursor())
	require.Equal(t, "9", moved.CurrentChar())

	for _, idx := range []int{10, -2} {
		same, ok := s.Seek(idx)
		assert.Falsef(t, ok, "seek(%d)", idx)
		assert.Equal(t, s, same)
	}

	start, ok := s.Seek(-1)
	require.True(t, ok)
	require.Equal(t, -1, start.Cursor())
	require.Equal(t, "", start.CurrentChar())
	require.Equal(t, s.CharStates(), start.CharStates(), "seek never touches marks")
}

func TestRetypingMarkedSlotKeepsCountsConsistent(t *testing.T) {
	s, _ := newSession("abcd", nil)
	s = s.Insert("a").Insert("b")
	s, ok := s.Seek(-1)
	require.True(t, ok)

	s = s.Insert("a")
	require.Equal(t, 2, s.Correct(), "correct slot typed again is not counted twice")

	s = s.Insert("x")
	require.Equal(t, 1, s.Correct())
	require.Equal(t, 1, s.Errors())
	require.Equal(t, Incorrect, s.CharState(1))
}

func TestEmptyTextEndsOnFirstInsert(t *testing.T) {
	s, _ := newSession("", nil)
	s = s.Insert("a")

	require.Equal(t, Ended, s.Phase())
	require.Equal(t, -1, s.Cursor())
	require.Equal(t, 0, s.Keystrokes())
	require.Empty(t, s.CharStates())
}

func TestGraphemeText(t *testing.T) {
	text := "café 👍🏽"
	s, _ := newSession(text, nil)
	require.Equal(t, 6, s.Len())

	s = s.Insert("c").Insert("a").Insert("f").Insert("é")
	require.Equal(t, 4, s.Correct())
	require.Equal(t, "é", s.CurrentChar())

	s = s.Insert(" ").Insert("👍🏽")
	require.Equal(t, Ended, s.Phase())
	require.Equal(t, 6, s.Correct())
	require.Equal(t, text, s.Text())
}

func TestSplitCharsAndFirstChar(t *testing.T) {
	require.Equal(t, []string{"a", " ", "b"}, SplitChars("a b"))
	require.Empty(t, SplitChars(""))
	require.Equal(t, "é", FirstChar("éx"))
	require.Equal(t, "", FirstChar(""))
}

func TestParseErrorCountMode(t *testing.T) {
	mode, err := ParseErrorCountMode("ONCE")
	require.NoError(t, err)
	require.Equal(t, Once, mode)

	mode, err = ParseErrorCountMode("everytime")
	require.NoError(t, err)
	require.Equal(t, EveryTime, mode)

	_, err = ParseErrorCountMode("sometimes")
	require.Error(t, err)
}

func TestApplyDispatchesCommands(t *testing.T) {
	s, _ := newSession("ab cd", nil)
	s = Replay(s, Insert("a"), Insert("x"), Delete(false), Insert("b"))

	require.Equal(t, 1, s.Cursor())
	require.Equal(t, 2, s.Correct())

	s = Apply(s, End())
	require.Equal(t, Ended, s.Phase())
	s = Apply(s, Seek(3))
	require.Equal(t, 3, s.Cursor())
	s = Apply(s, Reset())
	require.Equal(t, NotStarted, s.Phase())
	require.Equal(t, s, Apply(s, Command{Kind: CommandKind(99)}))
	require.True(t, strings.HasPrefix(CommandKind(99).String(), "command("))
}
