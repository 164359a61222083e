// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typist/internal/typing"
)

// Params controls how words are shaped into a practice text.
type Params struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
	// Weak biases word choice toward words containing these characters.
	Weak       map[string]struct{}
	WeakFactor float64
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Text builds a space-separated practice text from words.
func (g *Generator) Text(words []string, p Params) string {
	if len(words) == 0 || p.Count <= 0 {
		return ""
	}
	var picked []string
	if len(p.Weak) > 0 && p.WeakFactor > 0 {
		picked = g.GenerateWeighted(words, p)
	} else {
		picked = g.Generate(words, p)
	}
	return strings.Join(picked, " ")
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, p Params) []string {
	result := make([]string, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		result = append(result, g.shape(words[g.rnd.Intn(len(words))], p))
	}
	return result
}

// GenerateWeighted selects words with a bias toward weak characters.
func (g *Generator) GenerateWeighted(words []string, p Params) []string {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := 1.0 + float64(weakCount(word, p.Weak))*p.WeakFactor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, g.shape(words[idx], p))
	}
	return result
}

func weakCount(word string, weak map[string]struct{}) int {
	n := 0
	for _, ch := range typing.SplitChars(word) {
		if _, ok := weak[ch]; ok {
			n++
		}
	}
	return n
}

func (g *Generator) shape(word string, p Params) string {
	word = applyCaps(g.rnd, word, p.CapsPct)
	return applyPunct(g.rnd, word, p.PunctPct, p.PunctSet)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
