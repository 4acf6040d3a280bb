package searchquality

import (
	"fmt"
	"strings"
)

// maxSnippetChars bounds how much of a snippet enters the prompt context.
const maxSnippetChars = 200

// FormatRecords renders ranked records as a prompt context block. The block
// opens with header and enumerates each record with its source, date,
// snippet, and URL. empty is returned verbatim when there are no records.
func FormatRecords(header, empty string, records []Record) string {
	if len(records) == 0 {
		return empty
	}
	lines := []string{header}
	for i, rec := range records {
		entry := fmt.Sprintf("\n%d. %s", i+1, rec.Title)
		if rec.Source != "" {
			entry += fmt.Sprintf(" (%s)", rec.Source)
		}
		if rec.Published != nil {
			entry += " - " + rec.Published.UTC().Format("2006-01-02")
		}
		if snippet := truncateSnippet(rec.Snippet); snippet != "" {
			entry += "\n   " + snippet
		}
		if rec.URL != "" {
			entry += "\n   URL: " + rec.URL
		}
		lines = append(lines, entry)
	}
	return strings.Join(lines, "\n")
}

func truncateSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSnippetChars {
		return s
	}
	return string(runes[:maxSnippetChars-3]) + "..."
}
