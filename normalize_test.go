package tdv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", []string{}},
		{"a cat", []string{"a", "cat"}},
		{"  New\tYork \n city ", []string{"New", "York", "city"}},
		{"recently founded, like", []string{"recently", "founded,", "like"}},
		{"naïve café", []string{"naïve", "café"}},
	}
	for _, tt := range tests {
		got := Split(tt.in)
		if len(tt.want) == 0 {
			assert.Empty(t, got, "Split(%q)", tt.in)
			continue
		}
		assert.Equal(t, tt.want, got, "Split(%q)", tt.in)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a small feline", "a small feline"},
		{"{{lb|en|zoology}}a small feline", "a small feline"},
		{"a <b>small</b> feline", "a small feline"},
		{"cats &amp; dogs", "cats & dogs"},
		{"{{l|en|x}} <i>a</i> &lt;b&gt;", " a <b>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripMarkup(tt.in), "StripMarkup(%q)", tt.in)
	}
}

func TestCleanExample(t *testing.T) {
	tests := []struct {
		name, raw, term string
		want            Example
	}{
		{
			name: "bold headword",
			raw:  "The '''cat''' sat on the mat.",
			term: "cat",
			want: Example{Sentence: "The cat sat on the mat.", Spans: []Span{{Start: 4, End: 7}}},
		},
		{
			name: "two bold segments",
			raw:  "'''Cats''' chase '''cats'''.",
			term: "cat",
			want: Example{Sentence: "Cats chase cats.", Spans: []Span{{Start: 0, End: 4}, {Start: 11, End: 15}}},
		},
		{
			name: "fallback to literal match",
			raw:  "A [[w|wild]] cat appeared.",
			term: "cat",
			want: Example{Sentence: "A wild cat appeared.", Spans: []Span{{Start: 7, End: 10}}},
		},
		{
			name: "label template",
			raw:  "{{lb|en|informal}} the cat",
			term: "cat",
			want: Example{Sentence: "informal the cat", Spans: []Span{{Start: 13, End: 16}}},
		},
		{
			name: "no headword",
			raw:  "Nothing to see.",
			term: "cat",
			want: Example{Sentence: "Nothing to see."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanExample(tt.raw, tt.term)
			assert.Equal(t, tt.want.Sentence, got.Sentence)
			assert.Equal(t, tt.want.Spans, got.Spans)
			for _, sp := range got.Spans {
				assert.LessOrEqual(t, sp.End, len(got.Sentence))
			}
		})
	}
}

func TestSenseContext(t *testing.T) {
	ref := &MeaningRef{Attrs: []Attr{
		{"context", "finance|banking"},
		{"lb", "informal"},
		{"inflec", "plural", "bank"},
		{"label", " |slang"},
	}}
	assert.Equal(t, []string{"finance", "banking", "informal", "slang"}, senseContext(ref))
	assert.Empty(t, senseContext(&MeaningRef{}))
}
