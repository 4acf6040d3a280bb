package newssearch

import "github.com/Uokoroafor/hot-take-generator/internal/searchquality"

const (
	contextHeader = "Recent news and headlines:"
	contextEmpty  = "No recent news found on this topic."
)

// FormatContext renders ranked news articles as a prompt context block.
func FormatContext(records []searchquality.Record) string {
	return searchquality.FormatRecords(contextHeader, contextEmpty, records)
}
