package parley_test

import (
	"strings"
	"testing"

	"github.com/parleyhq/parley"
	"github.com/stretchr/testify/assert"
)

func TestGenerateTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "question kept whole with mark",
			content: "What is Playtech?",
			want:    "What is Playtech?",
		},
		{
			name:    "first sentence without terminator",
			content: "Playtech is great. It serves many markets.",
			want:    "Playtech is great",
		},
		{
			name:    "question wins over earlier period",
			content: "Markets. Which ones does Playtech serve?",
			want:    "Markets. Which ones does Playtech serve?",
		},
		{
			name:    "exclamation ends first sentence",
			content: "Tell me everything! Right now.",
			want:    "Tell me everything",
		},
		{
			name:    "no terminator uses whole text",
			content: "casino software vendors",
			want:    "casino software vendors",
		},
		{
			name:    "bold markers stripped",
			content: "**Playtech** products",
			want:    "Playtech products",
		},
		{
			name:    "newlines collapse to spaces",
			content: "line one\nline two",
			want:    "line one line two",
		},
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parley.GenerateTitle(tt.content))
		})
	}
}

func TestGenerateTitle_TruncatesLongText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)
	got := parley.GenerateTitle(long)

	assert.LessOrEqual(t, len([]rune(got)), 43)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("a", 40)+"...", got)
}

func TestGenerateTitle_ShortTextNotTruncated(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("b", 40)
	assert.Equal(t, exact, parley.GenerateTitle(exact))
}
