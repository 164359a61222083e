package tui

import (
	"strconv"
	"strings"

	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typist/internal/typing"
)

const wrongSpace = "•"

type styledChar struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledChars renders every slot of s. zonePrefix, when non-empty, marks
// each slot as a clickable zone.
func buildStyledChars(s typing.Session, zonePrefix string) []styledChar {
	chars := s.Chars()
	states := s.CharStates()
	ended := s.Phase() == typing.Ended
	next := s.Cursor() + 1
	words := findWords(chars)
	var currentWord *wordRange
	if !ended {
		currentWord = wordForCursor(words, next)
	}

	out := make([]styledChar, 0, len(chars))
	for i, ch := range chars {
		displayed := ch
		style := pendingStyle
		switch states[i] {
		case typing.Correct:
			style = correctStyle
		case typing.Incorrect:
			style = incorrectStyle
			if ch == " " {
				displayed = wrongSpace
			}
		default:
			if i < next {
				style = skippedStyle
			} else if ch != " " && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		switch {
		case ended && i == s.Cursor():
			style = style.Reverse(true)
		case !ended && i == next && states[i] == typing.Untested && ch == " ":
			style = cursorStyle
		case !ended && i == next:
			style = style.Underline(true)
		}
		rendered := style.Render(displayed)
		if zonePrefix != "" {
			rendered = zone.Mark(charZoneID(zonePrefix, i), rendered)
		}
		out = append(out, styledChar{
			s:       rendered,
			width:   runewidth.StringWidth(displayed),
			isSpace: ch == " ",
		})
	}
	return out
}

func charZoneID(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

type wordRange struct {
	start int
	end   int
}

func findWords(chars []string) []wordRange {
	words := []wordRange{}
	start := -1
	for i, ch := range chars {
		if ch == " " {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(chars)})
	}
	return words
}

// wordForCursor returns the word holding index, or the next word after it.
func wordForCursor(words []wordRange, index int) *wordRange {
	for i, w := range words {
		if index < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledChars(chars []styledChar) string {
	var b strings.Builder
	for _, item := range chars {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledChars(chars []styledChar, width int) string {
	if width <= 0 {
		return renderStyledChars(chars)
	}
	var out strings.Builder
	line := make([]styledChar, 0, len(chars))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(chars); {
		item := chars[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				// The breaking space stays on the upper line so every slot keeps a cell.
				out.WriteString(renderStyledChars(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledChar{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledChars(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledChars(line))
	return out.String()
}

func lineWidthOf(line []styledChar) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledChar) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
