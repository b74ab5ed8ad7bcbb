// Package moderation filters direct-message text before it is persisted.
// Censoring happens pre-persist, so stored messages stay immutable.
package moderation

import (
	"embed"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"versefeed/errors"
)

//go:embed words.txt
var wordsFS embed.FS

type Censor struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// NewCensor builds the Aho-Corasick automaton over the normalized forms of
// the banned words.
func NewCensor(words []string, replacement rune) (*Censor, error) {
	if len(words) == 0 {
		return nil, errors.ErrEmptyWordList
	}
	patterns := make([][]rune, len(words))
	for i, word := range words {
		normalized, _ := normalize(word)
		patterns[i] = normalized
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{machine: m, replacement: replacement}, nil
}

// NewDefaultCensor loads the embedded banned-word list.
func NewDefaultCensor(replacement rune) (*Censor, error) {
	raw, err := wordsFS.ReadFile("words.txt")
	if err != nil {
		return nil, err
	}
	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return NewCensor(words, replacement)
}

// Apply replaces every banned pattern in text with the replacement rune,
// preserving length and spacing of the original. Matching ignores case,
// punctuation and whitespace, so "b.a d" still matches "bad".
func (c *Censor) Apply(text string) string {
	normalized, indexes := normalize(text)
	if len(normalized) == 0 {
		return text
	}
	spans := c.machine.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(indexes) {
			continue
		}
		for i := indexes[start]; i <= indexes[end-1]; i++ {
			runes[i] = c.replacement
		}
	}
	return string(runes)
}

// normalize lowercases the input and drops punctuation, symbols and spaces,
// keeping a mapping from each kept rune back to its original index.
func normalize(text string) ([]rune, []int) {
	original := []rune(text)
	kept := make([]rune, 0, len(original))
	indexes := make([]int, 0, len(original))
	for i, r := range original {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		kept = append(kept, unicode.ToLower(r))
		indexes = append(indexes, i)
	}
	return kept, indexes
}
