package feed

import (
	"strings"
	"unicode/utf8"
)

// maxContentLength is the public content budget for feed entries, counted in
// runes so multibyte content is never split mid-character.
const maxContentLength = 200

// TruncateContent cuts content to at most limit characters plus a "..."
// suffix. The cut backs up to the last word boundary when that boundary
// falls within the final 20% of the budget; otherwise it cuts mid-word at
// the limit rather than dropping a large tail.
func TruncateContent(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}

	runes := []rune(content)
	cut := limit
	for i := limit - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			if i >= limit*4/5 {
				cut = i
			}
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "..."
}
