// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/notes-to-anki/pkg/types"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already tab separated",
			input: "Question\tAnswer",
			want:  "Question\tAnswer",
		},
		{
			name:  "double space",
			input: "Question  Answer",
			want:  "Question\tAnswer",
		},
		{
			name:  "colon space",
			input: "Question: Answer",
			want:  "Question\tAnswer",
		},
		{
			name:  "colon followed by two spaces",
			input: "Question:  Answer",
			want:  "Question\tAnswer",
		},
		{
			name:  "multiple lines keep order",
			input: "Q1\tA1\nQ2\tA2",
			want:  "Q1\tA1\nQ2\tA2",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "blank lines only",
			input: "\n   \n\t\n",
			want:  "",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "\n        What is time complexity?\tO(n)\n        Why use binary search?\tIt's faster\n        ",
			want:  "What is time complexity?\tO(n)\nWhy use binary search?\tIt's faster",
		},
		{
			name:  "malformed lines dropped",
			input: "This line has no tab\nAnother bad line\nGood line\tGood answer",
			want:  "Good line\tGood answer",
		},
		{
			name:  "extra columns collapse into back",
			input: "Question   Part1 Part2",
			want:  "Question\tPart1 Part2",
		},
		{
			name:  "later separators stay in back",
			input: "Term: definition: with detail  and more",
			want:  "Term\tdefinition: with detail  and more",
		},
		{
			name:  "earliest separator wins over priority",
			input: "Ratio: a  b",
			want:  "Ratio\ta  b",
		},
		{
			name:  "double space before colon",
			input: "Big O  notation: bound",
			want:  "Big O\tnotation: bound",
		},
		{
			name:  "tab line not coerced",
			input: "Front:  with colon\tBack  with spaces",
			want:  "Front:  with colon\tBack  with spaces",
		},
		{
			name:  "carriage return line endings",
			input: "Q1  A1\r\nQ2: A2\rQ3\tA3",
			want:  "Q1\tA1\nQ2\tA2\nQ3\tA3",
		},
		{
			name:  "vertical tab run",
			input: "Question\v\vAnswer",
			want:  "Question\tAnswer",
		},
		{
			name:  "colon then vertical tab",
			input: "Question:\vAnswer",
			want:  "Question\tAnswer",
		},
		{
			name:  "separator with empty front",
			input: ": answer only",
			want:  "",
		},
		{
			name:  "separator with empty back",
			input: "question only:   ",
			want:  "",
		},
		{
			name:  "code fence dropped",
			input: "```\nQ\tA\n```",
			want:  "Q\tA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"Q1\tA1\nQ2\tA2",
		"Question  Answer\nTerm: Meaning\nnot a card",
		"  lead\ttrail  \n\n\nx: y",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeWithReportsRejections(t *testing.T) {
	var seen []Rejection
	res := SanitizeWith("bad line\nGood\tcard\nalso-bad", func(r Rejection) {
		seen = append(seen, r)
	})

	assert.Equal(t, []string{"Good\tcard"}, res.Lines)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, res.Rejected, seen)
	assert.Equal(t, "bad line", res.Rejected[0].Line)
	assert.Equal(t, "also-bad", res.Rejected[1].Line)
	assert.Contains(t, res.Rejected[0].Reason, ErrMalformedLine.Error())
}

func TestSanitizeWithNilDiag(t *testing.T) {
	res := SanitizeWith("nothing to see", nil)
	assert.Empty(t, res.Lines)
	assert.Len(t, res.Rejected, 1)
	assert.Equal(t, "", res.Block())
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("a\tb\tc")
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc", got)

	_, err = Normalize("single")
	assert.True(t, errors.Is(err, ErrMalformedLine))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		line string
		want types.Card
		ok   bool
	}{
		{"Q  A", types.Card{Front: "Q", Back: "A"}, true},
		{"Q: A", types.Card{Front: "Q", Back: "A"}, true},
		{"Q:A", types.Card{}, false},
		{"Q A", types.Card{}, false},
		{"Q\tA", types.Card{Front: "Q", Back: "A"}, true},
		{"http://example.com", types.Card{}, false},
		{"", types.Card{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Coerce(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoSeparatorLinesAlwaysDropped(t *testing.T) {
	for _, line := range []string{"word", "two words", "a:b", "x:y z", "trailing colon:"} {
		assert.Empty(t, Sanitize(line), "line %q", line)
	}
}
