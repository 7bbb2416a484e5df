package segmenter

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/domain"
)

func newPunkt(t *testing.T) *Punkt {
	t.Helper()
	p, err := NewPunkt()
	require.NoError(t, err)
	return p
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t  ", ""},
		{"newlines", "Line one.\nLine two.\r\n\nLine three.", "Line one. Line two. Line three."},
		{"runs of spaces", "  a   b\t\tc  ", "a b c"},
		{"already clean", "Nothing to do.", "Nothing to do."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	for _, in := range []string{"a  b", "\n x \n y\n", "one. two.  three.", "tab\tsep"} {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestSegment(t *testing.T) {
	p := newPunkt(t)

	got := p.Segment("The clinic opens at 9am.\n\nBring your insurance card.")
	assert.Equal(t, []string{"The clinic opens at 9am.", "Bring your insurance card."}, got)
}

func TestSegment_DecimalsAreNotBoundaries(t *testing.T) {
	p := newPunkt(t)

	got := p.Segment("The usual dose is 2.5 mg per day. Take it with food.")
	assert.Equal(t, []string{"The usual dose is 2.5 mg per day.", "Take it with food."}, got)
}

func TestSegment_AbbreviationsAreNotBoundaries(t *testing.T) {
	p := newPunkt(t)

	got := p.Segment("Dr. Smith sees patients on Monday. Appointments are required.")
	require.Len(t, got, 2)
	assert.Equal(t, "Dr. Smith sees patients on Monday.", got[0])
}

func TestSegment_SentenceEndingInNumber(t *testing.T) {
	p := newPunkt(t)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"fee",
			"The consultation fee is 500. Please pay at the front desk.",
			[]string{"The consultation fee is 500.", "Please pay at the front desk."},
		},
		{
			"room number",
			"Our clinic is in room 12. Please take the lift.",
			[]string{"Our clinic is in room 12.", "Please take the lift."},
		},
		{
			"hour",
			"Visiting hours end at 8. Please leave before then.",
			[]string{"Visiting hours end at 8.", "Please leave before then."},
		},
		{
			"several in a row",
			"Dial 3. Then press 9. Wait for the nurse.",
			[]string{"Dial 3.", "Then press 9.", "Wait for the nurse."},
		},
		{
			"lowercase continuation",
			"Take tablet 2. then rest for an hour.",
			[]string{"Take tablet 2. then rest for an hour."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Segment(tt.in))
		})
	}
}

func TestSplitAfterNumbers(t *testing.T) {
	assert.Equal(t, []string{"Room 12.", "Go up."}, splitAfterNumbers("Room 12. Go up."))
	assert.Equal(t, []string{"1. Bring your card."}, splitAfterNumbers("1. Bring your card."))
	assert.Equal(t, []string{"It costs $3.50 today."}, splitAfterNumbers("It costs $3.50 today."))
	assert.Equal(t, []string{"The dose is 2.5 mg."}, splitAfterNumbers("The dose is 2.5 mg."))
}

func TestSegment_NonEmptyYieldsAtLeastOne(t *testing.T) {
	p := newPunkt(t)

	for _, in := range []string{"no terminal punctuation", "?", "word", "  spaced   out  "} {
		assert.NotEmpty(t, p.Segment(in), "input %q", in)
	}
	assert.Empty(t, p.Segment(" \n "))
}

func TestBuildCorpus(t *testing.T) {
	p := newPunkt(t)
	path := filepath.Join(t.TempDir(), "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte("What are your hours?\nWe open at 8am.   We close at 6pm.\n"), 0o644))

	corpus, err := p.BuildCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"What are your hours?", "We open at 8am.", "We close at 6pm."}, corpus)
}

func TestBuildCorpus_MissingFile(t *testing.T) {
	p := newPunkt(t)

	_, err := p.BuildCorpus(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorpusUnreadable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBuildCorpus_EmptyFile(t *testing.T) {
	p := newPunkt(t)
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	corpus, err := p.BuildCorpus(path)
	require.NoError(t, err)
	assert.Empty(t, corpus)
}
