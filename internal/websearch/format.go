package websearch

import "github.com/Uokoroafor/hot-take-generator/internal/searchquality"

const (
	contextHeader = "Web search results:"
	contextEmpty  = "No web search results found for this topic."
)

// FormatContext renders ranked web results as a prompt context block.
func FormatContext(records []searchquality.Record) string {
	return searchquality.FormatRecords(contextHeader, contextEmpty, records)
}
