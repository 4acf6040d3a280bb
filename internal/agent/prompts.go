package agent

import (
	"fmt"
	"sort"
)

// DefaultStyle is used when a request names no style or an unknown one.
const DefaultStyle = "controversial"

// stylePrompts maps each supported style to its system prompt. The same
// prompts serve every agent so switching providers never changes the voice.
var stylePrompts = map[string]string{
	"controversial": "You are a provocative opinion generator. Create bold, controversial takes that challenge conventional wisdom. Be edgy but thoughtful.",
	"sarcastic":     "You are a sarcastic commentator. Generate witty, sarcastic hot takes with a sharp sense of humor.",
	"optimistic":    "You are an optimistic contrarian. Generate positive, uplifting hot takes that find the good in everything.",
	"pessimistic":   "You are a cynical realist. Generate pessimistic hot takes that highlight the worst-case scenarios.",
	"absurd":        "You are an absurdist philosopher. Generate completely ridiculous and absurd hot takes that make people laugh.",
	"analytical":    "You are a deep analytical thinker. Generate hot takes that break down complex topics with nuanced analysis.",
	"philosophical": "You are a modern philosopher. Generate hot takes that question fundamental assumptions about life and society.",
	"witty":         "You are a clever wordsmith. Generate hot takes that are clever, punchy, and memorable.",
	"contrarian":    "You are a professional contrarian. Always take the opposite stance from popular opinion, but back it up with reasoning.",
}

// newsContextSuffix is appended to the system prompt when search context is
// part of the request.
const newsContextSuffix = " When provided with recent news context, incorporate those current events into your hot take to make it timely and relevant. Use the news to support your perspective or provide counterpoints."

// SystemPrompt returns the system prompt for a style, falling back to the
// default style for unknown names.
func SystemPrompt(style string, withContext bool) string {
	prompt, ok := stylePrompts[style]
	if !ok {
		prompt = stylePrompts[DefaultStyle]
	}
	if withContext {
		prompt += newsContextSuffix
	}
	return prompt
}

// UserPrompt assembles the user message, embedding search context and the
// grounding instructions when context is present.
func UserPrompt(topic, searchContext string) string {
	if searchContext == "" {
		return "Generate a hot take about: " + topic
	}
	return fmt.Sprintf(`Topic: %s

Recent news context:
%s

Instructions:
- Base your take on the strongest evidence in the context.
- Ignore low-signal details and unsupported claims.
- If sources disagree, briefly note the tension.
- Keep it punchy, but fact-grounded.

Generate a hot take about: %s`, topic, searchContext, topic)
}

// AvailableStyles lists every supported style name, sorted.
func AvailableStyles() []string {
	styles := make([]string, 0, len(stylePrompts))
	for s := range stylePrompts {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	return styles
}
