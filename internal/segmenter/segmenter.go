package segmenter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"golang.org/x/text/unicode/norm"

	"medibot/internal/domain"
)

// Clean collapses every whitespace run, newlines included, into a single
// space and trims both ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Punkt splits text into sentences using the Punkt tokenizer trained for
// English, so abbreviations, initials and decimal numbers do not end a sentence.
type Punkt struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunkt loads the bundled English Punkt model.
func NewPunkt() (*Punkt, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &Punkt{tokenizer: tok}, nil
}

// Segment cleans text and returns its sentences in order. Non-empty input
// always yields at least one sentence.
func (p *Punkt) Segment(text string) []string {
	text = Clean(text)
	if text == "" {
		return nil
	}
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		for _, t := range splitAfterNumbers(strings.TrimSpace(s.Text)) {
			if t != "" {
				out = append(out, t)
			}
		}
	}
	if len(out) == 0 {
		out = []string{text}
	}
	return out
}

// BuildCorpus reads the file at path and returns its sentences.
func (p *Punkt) BuildCorpus(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnreadable, err)
	}
	return p.Segment(norm.NFC.String(string(data))), nil
}

// numberBoundary matches a bare integer closing a sentence before a
// capitalized word, as in "The fee is 500. Please pay at the desk."
// Punkt treats every number token as a possible abbreviation and never
// breaks there. A number opening the text ("1. Bring ...") is not matched.
var numberBoundary = regexp.MustCompile(`\s\d+\.\s+\p{Lu}`)

func splitAfterNumbers(sentence string) []string {
	var out []string
	for {
		loc := numberBoundary.FindStringIndex(sentence)
		if loc == nil {
			return append(out, sentence)
		}
		dot := loc[0] + strings.IndexByte(sentence[loc[0]:loc[1]], '.')
		out = append(out, strings.TrimSpace(sentence[:dot+1]))
		sentence = strings.TrimSpace(sentence[dot+1:])
	}
}
