package parley

import "strings"

// titleMaxRunes is the longest title shown before truncation kicks in.
const titleMaxRunes = 40

var titleCleaner = strings.NewReplacer("**", "", "\r\n", " ", "\n", " ")

// GenerateTitle derives a short display title from message text. It is
// pure and never fails; empty input yields an empty title.
//
// Bold markers and newlines are stripped first. A question wins: if the
// text contains a '?', the title runs up to and including the first one.
// Otherwise the title is the first sentence, cut before the first '.' or
// '!'; text with no terminator is used whole. Results longer than 40
// runes are truncated with an ellipsis marker.
func GenerateTitle(content string) string {
	text := strings.TrimSpace(titleCleaner.Replace(content))

	if i := strings.IndexByte(text, '?'); i >= 0 {
		text = text[:i+1]
	} else if i := strings.IndexAny(text, ".!"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	if r := []rune(text); len(r) > titleMaxRunes {
		return string(r[:titleMaxRunes]) + "..."
	}
	return text
}
