package extract

import "strings"

// maxHeadings limits how many headings are recorded as metadata.
const maxHeadings = 5

// extractMarkdown treats markdown as plain text but records the leading
// headings as metadata so they can be surfaced alongside search results.
func extractMarkdown(content []byte) (*Result, error) {
	res, err := extractPlain(content)
	if err != nil {
		return nil, err
	}
	res.Type = "markdown"
	res.Metadata["headers"] = Headings(res.Content, maxHeadings)
	return res, nil
}

// Headings returns up to max ATX-style heading texts from markdown content.
func Headings(content string, max int) []string {
	headings := make([]string, 0, max)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if text == "" {
			continue
		}
		headings = append(headings, text)
		if len(headings) == max {
			break
		}
	}
	return headings
}
