package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
)

const topCharsShown = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsAll      []model.CharAggregate
	CharAggsWindow   []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	charAggsAll, err := st.ListCharAggregatesForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate chars: %w", err)
	}
	charAggsWindow, err := st.ListCharAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate window chars: %w", err)
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		CharAggsAll:      FilterChars(charAggsAll, cfg.Chars),
		CharAggsWindow:   FilterChars(charAggsWindow, cfg.Chars),
	}, nil
}

// Render writes the full text report: summary, curves, and both char tables.
func (r Report) Render(w io.Writer, cfg model.StatsConfig, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	if top := TopCharsByFrequency(r.CharAggsAll, topCharsShown); len(top) > 0 {
		for i, ch := range top {
			top[i] = charLabel(ch)
		}
		if _, err := fmt.Fprintf(w, "Most practiced: %s\n\n", strings.Join(top, " ")); err != nil {
			return err
		}
	}
	if err := RenderCharTable(w, "Characters (all sessions)", r.CharAggsAll); err != nil {
		return err
	}
	title := fmt.Sprintf("Characters (last %d sessions)", len(r.WindowSessionIDs))
	return RenderCharTable(w, title, r.CharAggsWindow)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
