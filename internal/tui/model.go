// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/verte-zerg/typist/internal/game"
	"github.com/verte-zerg/typist/internal/generator"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/model"
	statsPkg "github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/textfile"
	"github.com/verte-zerg/typist/internal/typing"
)

// Params carries the collaborators of the practice model.
type Params struct {
	Store *store.Store
	Gen   *generator.Generator
	Words []string
	// Source describes where practice text comes from, e.g. a word list path.
	Source            string
	Weak              map[string]struct{}
	WeakNoticePrinted bool
	// Text, when set, is used instead of generated words.
	Text    string
	Changes <-chan textfile.Change
}

type textChangedMsg textfile.Change

// Model implements the Bubble Tea typing UI.
type Model struct {
	config            model.Config
	store             *store.Store
	gen               *generator.Generator
	words             []string
	source            string
	fixedText         string
	changes           <-chan textfile.Change
	weakSet           map[string]struct{}
	weakNoticePrinted bool

	game       *game.Game
	keys       KeyMap
	help       help.Model
	timer      timer.Model
	zonePrefix string

	width  int
	height int
	status string

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM      float64
	allAcc      float64
	allCorrect  int
	allErrors   int
	allDuration int64

	log *slog.Logger
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	skippedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, p Params) *Model {
	m := &Model{
		config:            cfg,
		store:             p.Store,
		gen:               p.Gen,
		words:             p.Words,
		source:            p.Source,
		fixedText:         p.Text,
		changes:           p.Changes,
		weakSet:           p.Weak,
		weakNoticePrinted: p.WeakNoticePrinted,
		keys:              DefaultKeyMap(),
		help:              help.New(),
		zonePrefix:        zone.NewPrefix(),
		log:               logging.For("tui"),
	}
	if m.weakSet == nil {
		m.weakSet = map[string]struct{}{}
	}
	m.game = game.New(m.nextText(), cfg.Typing, game.WithOnEnd(m.onAttemptEnd))
	m.resetTimer()
	m.keys.setPhase(m.game.State().Phase())
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case textChangedMsg:
		m.handleTextChanged(textfile.Change(msg))
		return m, m.waitForChange()
	case timer.TimeoutMsg:
		if msg.ID == m.timer.ID() && m.game.State().Phase() == typing.Started {
			m.game.End()
			m.keys.setPhase(m.game.State().Phase())
		}
		return m, nil
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.game.State()
	if s.Len() == 0 {
		return zone.Scan(m.renderStatus("No text to type. Press ctrl+n for new text or ctrl+c to quit."))
	}
	prefix := ""
	if s.Phase() == typing.Ended {
		prefix = m.zonePrefix
	}
	chars := buildStyledChars(s, prefix)
	if m.width == 0 || m.height == 0 {
		return zone.Scan(renderStyledChars(chars))
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledChars(chars, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", statusStyle.Render(m.status))
	}
	if m.height < 4 {
		return zone.Scan(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content))
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	return zone.Scan(body + "\n" + footerLine + "\n" + helpLine)
}

func (m *Model) renderStatus(text string) string {
	if m.width == 0 || m.height == 0 {
		return text
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, statusStyle.Render(text))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	before := m.game.State().Phase()
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Reset):
		m.game.Reset()
		m.resetTimer()
	case key.Matches(msg, m.keys.NewText), key.Matches(msg, m.keys.Again):
		m.newText()
	case key.Matches(msg, m.keys.End):
		m.game.End()
	case key.Matches(msg, m.keys.DeleteWord):
		m.game.Delete(true)
	case key.Matches(msg, m.keys.Delete):
		m.game.Delete(false)
	case key.Matches(msg, m.keys.Skip):
		m.game.Insert("")
	case key.Matches(msg, m.keys.Prev):
		m.game.SetCurrIndex(m.game.State().Cursor() - 1)
	case key.Matches(msg, m.keys.Next):
		m.game.SetCurrIndex(m.game.State().Cursor() + 1)
	case key.Matches(msg, m.keys.First):
		m.game.SetCurrIndex(0)
	case key.Matches(msg, m.keys.Last):
		m.game.SetCurrIndex(m.game.State().Len() - 1)
	case msg.Type == tea.KeySpace:
		m.game.Insert(" ")
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, ch := range typing.SplitChars(string(msg.Runes)) {
			m.game.Insert(ch)
		}
	}
	after := m.game.State().Phase()
	if before == typing.NotStarted && after == typing.Started && m.config.TimeLimit > 0 {
		cmd = m.timer.Init()
	}
	if after == typing.Ended && m.timer.Running() {
		cmd = m.timer.Stop()
	}
	m.keys.setPhase(after)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return
	}
	s := m.game.State()
	if s.Phase() != typing.Ended {
		return
	}
	for i := 0; i < s.Len(); i++ {
		if z := zone.Get(charZoneID(m.zonePrefix, i)); z != nil && z.InBounds(msg) {
			m.game.SetCurrIndex(i)
			return
		}
	}
}

func (m *Model) handleTextChanged(c textfile.Change) {
	if c.Err != nil {
		m.log.Warn("text file reload failed", "err", c.Err)
		m.status = fmt.Sprintf("failed to reload text: %v", c.Err)
		return
	}
	m.fixedText = c.Text
	if m.game.SetText(c.Text) {
		m.status = "text file changed"
		m.resetTimer()
		m.keys.setPhase(m.game.State().Phase())
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return textChangedMsg(c)
	}
}

func (m *Model) newText() {
	m.status = ""
	if !m.game.SetText(m.nextText()) {
		m.game.Reset()
	}
	m.resetTimer()
	m.keys.setPhase(m.game.State().Phase())
}

func (m *Model) nextText() string {
	if m.config.TextFile != "" {
		return m.fixedText
	}
	if m.gen == nil {
		return ""
	}
	params := generator.Params{
		Count:    m.config.Words,
		CapsPct:  m.config.CapsPct,
		PunctPct: m.config.PunctPct,
		PunctSet: []rune(m.config.PunctSet),
	}
	if m.config.FocusWeak {
		params.Weak = m.weakSet
		params.WeakFactor = m.config.WeakFactor
	}
	return m.gen.Text(m.words, params)
}

func (m *Model) resetTimer() {
	if m.config.TimeLimit <= 0 {
		return
	}
	m.timer = timer.NewWithInterval(m.config.TimeLimit, time.Second)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.log.Error("failed to load session stats", "err", err)
		m.status = fmt.Sprintf("failed to load session stats: %v", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Errors, last.DurationMs)
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allErrors += s.Errors
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allCorrect, m.allErrors, m.allDuration)
}

func (m *Model) renderFooter() string {
	s := m.game.State()
	if s.Len() == 0 {
		return ""
	}
	tested := 0
	for _, st := range s.CharStates() {
		if st != typing.Untested {
			tested++
		}
	}
	progress := tested * 100 / s.Len()
	elapsed := m.game.Duration()
	wpm, _, _ := statsPkg.SessionMetrics(s.Correct(), s.Errors(), elapsed.Milliseconds())
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Errors %d", s.Errors()),
		fmt.Sprintf("Keys %d", s.Keystrokes()),
		fmt.Sprintf("%.1f WPM", wpm),
	}
	if m.config.TimeLimit > 0 && s.Phase() != typing.Ended {
		segments = append(segments, fmt.Sprintf("Left %s", m.timer.View()))
	} else {
		segments = append(segments, fmt.Sprintf("Time %s", elapsed.Truncate(100*time.Millisecond)))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	return footerStyle.Render(strings.Join(segments, "  "))
}

// onAttemptEnd persists a finished attempt and refreshes footer and weak stats.
func (m *Model) onAttemptEnd(res game.Result) {
	if res.StartedAt.IsZero() {
		return
	}
	stats := model.SessionStats{
		AttemptID:       res.AttemptID,
		StartedAt:       res.StartedAt,
		EndedAt:         res.EndedAt,
		Lang:            m.config.Lang,
		Source:          m.source,
		TextLength:      res.Length,
		SkipWordOnSpace: res.Options.SkipWordOnSpace,
		PauseOnError:    res.Options.PauseOnError,
		CountErrors:     res.Options.CountErrors.String(),
		Correct:         res.Correct,
		Errors:          res.Errors,
		Keystrokes:      res.Keystrokes,
		Completed:       res.Completed,
		DurationMs:      res.Duration.Milliseconds(),
	}
	charStats := make([]model.CharStats, 0, len(res.Chars))
	for _, c := range res.Chars {
		charStats = append(charStats, model.CharStats{
			Char:         c.Char,
			Correct:      c.Correct,
			Incorrect:    c.Incorrect,
			LatencySumMs: c.LatencySumMs,
			LatencyCount: c.LatencyCount,
		})
	}

	if m.store != nil {
		if _, err := m.store.InsertSession(context.Background(), stats, charStats); err != nil {
			m.log.Error("failed to save session", "attempt", res.AttemptID, "err", err)
			m.status = fmt.Sprintf("failed to save session: %v", err)
		}
	}
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(stats.Correct, stats.Errors, stats.DurationMs)
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allErrors += stats.Errors
	m.allDuration += stats.DurationMs
	m.recomputeAllTime()

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.log.Error("failed to load weak chars", "err", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
	if len(m.weakSet) == 0 && !m.weakNoticePrinted {
		m.status = "no stats available for weak-char focus yet; using normal generator"
		m.weakNoticePrinted = true
	}
}
