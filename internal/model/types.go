// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/typist/internal/typing"
)

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
	// TextFile, when set, replaces generated text with the file contents.
	TextFile  string
	TimeLimit time.Duration
	Typing    typing.Options
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionStats captures a finished typing attempt.
type SessionStats struct {
	AttemptID       string
	StartedAt       time.Time
	EndedAt         time.Time
	Lang            string
	Source          string
	TextLength      int
	SkipWordOnSpace bool
	PauseOnError    bool
	CountErrors     string
	Correct         int
	Errors          int
	Keystrokes      int
	Completed       bool
	DurationMs      int64
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string `yaml:"char"`
	Correct      int    `yaml:"correct"`
	Incorrect    int    `yaml:"incorrect"`
	LatencySumMs int64  `yaml:"latency_sum_ms"`
	LatencyCount int64  `yaml:"latency_count"`
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64     `yaml:"id"`
	AttemptID  string    `yaml:"attempt"`
	Lang       string    `yaml:"lang"`
	StartedAt  time.Time `yaml:"started_at"`
	EndedAt    time.Time `yaml:"ended_at"`
	Correct    int       `yaml:"correct"`
	Errors     int       `yaml:"errors"`
	Keystrokes int       `yaml:"keystrokes"`
	Completed  bool      `yaml:"completed"`
	DurationMs int64     `yaml:"duration_ms"`
}
