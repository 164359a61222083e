package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/typist/internal/model"
)

const (
	terminalWidthBackup = 80
	minCurveWidth       = 10
	curveLabelWidth     = 10
)

// Series represents a named data series.
type Series struct {
	Name   string
	Values []float64
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// CurveWidthFor returns the sparkline width that fits next to the series labels.
func CurveWidthFor(totalWidth int) int {
	return max(minCurveWidth, totalWidth-2*curveLabelWidth-2)
}

// RenderCurves prints WPM and accuracy learning curves as sparklines.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Correct, s.Errors, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	return RenderSeries(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, CurveWidthFor(totalWidth))
}

// RenderSeries prints one labelled sparkline per series with its min and max.
func RenderSeries(w io.Writer, title string, series []Series, width int) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		values := resample(s.Values, width)
		lo, hi := minMax(s.Values)
		if _, err := fmt.Fprintf(w, "%-*s %s  [min %.1f, max %.1f]\n", curveLabelWidth, s.Name, Sparkline(values), lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// resample shrinks values to width buckets by averaging. Shorter series are
// returned as-is.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
