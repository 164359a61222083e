package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/typist/internal/model"
)

// RenderHistory prints one line per session, newest first, with times
// relative to now.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate, now time.Time) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"When", "Lang", "Duration", "WPM", "Accuracy", "Keys", "Status"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		wpm, _, acc := SessionMetrics(s.Correct, s.Errors, s.DurationMs)
		status := "ended"
		if s.Completed {
			status = "done"
		}
		rows = append(rows, []string{
			humanize.RelTime(s.EndedAt, now, "ago", "from now"),
			s.Lang,
			(time.Duration(s.DurationMs) * time.Millisecond).Round(100 * time.Millisecond).String(),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.1f%%", acc*100),
			humanize.Comma(int64(s.Keystrokes)),
			status,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
