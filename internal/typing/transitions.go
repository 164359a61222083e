package typing

import "time"

// Insert commits letter against the next slot. An empty letter skips one slot
// without marking it. Insert is a no-op once the session has ended.
func (s Session) Insert(letter string) Session {
	if s.phase == Ended {
		return s
	}
	s = s.withStates()
	if s.phase == NotStarted {
		s.phase = Started
		s.startTime = s.now()
	}

	switch {
	case letter == space && s.Char(s.next) != space && s.opts.SkipWordOnSpace:
		s.skipWord()
	case letter == "":
		s.next++
	case s.next >= len(s.chars):
		// Nothing left to compare against; only reachable for an empty text or
		// after seeking to the last slot mid-session.
	case letter != s.chars[s.next]:
		s.mistype()
	default:
		s.commitCorrect()
	}

	if s.next > len(s.chars) {
		s.next = len(s.chars)
	}
	if s.Cursor() >= len(s.chars)-1 && s.endTime.IsZero() {
		s.phase = Ended
		s.endTime = s.now()
	}
	return s
}

// skipWord moves the cursor to the first space at or after it, or to the last
// character when no space follows. Nothing is marked or counted.
func (s *Session) skipWord() {
	idx := indexFrom(s.chars, space, s.Cursor())
	if idx == -1 {
		idx = len(s.chars) - 1
	}
	s.next = idx + 1
}

func (s *Session) mistype() {
	s.keystrokes++
	switch s.charStates[s.next] {
	case Incorrect:
		if s.opts.CountErrors == EveryTime {
			s.errors++
		}
	case Correct:
		s.correct--
		fallthrough
	default:
		s.charStates[s.next] = Incorrect
		s.errors++
	}
	if !s.opts.PauseOnError {
		s.next++
	}
}

func (s *Session) commitCorrect() {
	s.keystrokes++
	switch s.charStates[s.next] {
	case Incorrect:
		if s.opts.PauseOnError && s.opts.CountErrors == Once {
			s.errors--
		}
		s.correct++
	case Untested:
		s.correct++
	}
	s.charStates[s.next] = Correct
	s.next++
}

// Delete unmarks the character at the cursor, or the whole word up to the cursor
// when wholeWord is set, and moves the cursor back. It only applies while typing
// is in progress and something has been committed.
func (s Session) Delete(wholeWord bool) Session {
	cursor := s.Cursor()
	if s.phase != Started || cursor == -1 {
		return s
	}
	s = s.withStates()
	low := cursor
	if wholeWord {
		low = lastIndexAtOrBefore(s.chars, space, cursor) + 1
	}
	for i := cursor; i >= low; i-- {
		s.unmark(i)
	}
	// low is cursor+1 when the cursor rests on a space; the cursor then stays put.
	s.next = low
	return s
}

func (s *Session) unmark(i int) {
	switch s.charStates[i] {
	case Correct:
		s.correct--
	case Incorrect:
		if s.opts.CountErrors == Once {
			s.errors--
		}
	}
	s.charStates[i] = Untested
}

// Reset clears all progress while keeping the text and policies.
func (s Session) Reset() Session {
	return Session{
		chars:      s.chars,
		charStates: make([]CharState, len(s.chars)),
		opts:       s.opts,
	}
}

// End force-terminates the session without touching marks, counts or cursor.
// Ending an already ended session keeps its original end time.
func (s Session) End() Session {
	if s.phase == Ended && !s.endTime.IsZero() {
		return s
	}
	s.phase = Ended
	s.endTime = s.now()
	return s
}

// Seek repositions the cursor. It reports false and returns s unchanged when
// index is outside [-1, Len()).
func (s Session) Seek(index int) (Session, bool) {
	if index < -1 || index >= len(s.chars) {
		return s, false
	}
	s.next = index + 1
	return s, true
}

// Duration returns the elapsed typing time: zero before the start, time since the
// start while typing, and end minus start once ended.
func (s Session) Duration() time.Duration {
	switch s.phase {
	case Started:
		if s.startTime.IsZero() {
			return 0
		}
		return s.now().Sub(s.startTime)
	case Ended:
		if s.startTime.IsZero() || s.endTime.IsZero() {
			return 0
		}
		return s.endTime.Sub(s.startTime)
	default:
		return 0
	}
}
