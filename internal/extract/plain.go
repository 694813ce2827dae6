package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns content as text, replacing invalid UTF-8 sequences
// with the replacement character.
func extractPlain(content []byte) (*Result, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return &Result{
		Content: text,
		Type:    "text",
		Metadata: map[string]interface{}{
			"line_count": strings.Count(text, "\n") + 1,
			"char_count": utf8.RuneCountInString(text),
		},
	}, nil
}
