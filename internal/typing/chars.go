package typing

import "github.com/rivo/uniseg"

const space = " "

// SplitChars splits s into user-perceived characters (grapheme clusters).
func SplitChars(s string) []string {
	chars := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		chars = append(chars, cluster)
	}
	return chars
}

// FirstChar returns the first grapheme cluster of s, or "" for an empty string.
func FirstChar(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.StepString(s, -1)
	return cluster
}

func indexFrom(chars []string, target string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(chars); i++ {
		if chars[i] == target {
			return i
		}
	}
	return -1
}

func lastIndexAtOrBefore(chars []string, target string, from int) int {
	if from >= len(chars) {
		from = len(chars) - 1
	}
	for i := from; i >= 0; i-- {
		if chars[i] == target {
			return i
		}
	}
	return -1
}
