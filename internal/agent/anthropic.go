package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

const (
	anthropicTemperature = 0.7
	anthropicMaxTokens   = 200
)

// Anthropic generates hot takes through the Anthropic messages API.
type Anthropic struct {
	client     anthropic.Client
	model      string
	configured bool
}

func NewAnthropic(cfg config.Config) *Anthropic {
	return &Anthropic{
		client:     anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:      cfg.AnthropicModel,
		configured: cfg.AnthropicAPIKey != "",
	}
}

func (a *Anthropic) Name() string     { return "Claude Agent" }
func (a *Anthropic) Model() string    { return a.model }
func (a *Anthropic) Configured() bool { return a.configured }

func (a *Anthropic) params(topic, style, searchContext string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(anthropicTemperature),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt(style, searchContext != "")},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(UserPrompt(topic, searchContext))),
		},
	}
}

func (a *Anthropic) GenerateHotTake(ctx context.Context, topic, style, searchContext string) (string, error) {
	resp, err := a.client.Messages.New(ctx, a.params(topic, style, searchContext))
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if text := block.Text; text != "" {
			out.WriteString(text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("anthropic message: empty response")
	}
	return strings.TrimSpace(out.String()), nil
}

func (a *Anthropic) StreamHotTake(ctx context.Context, topic, style, searchContext string, onDelta func(string) error) error {
	stream := a.client.Messages.NewStreaming(ctx, a.params(topic, style, searchContext))
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text == "" {
					continue
				}
				if err := onDelta(delta.Text); err != nil {
					return err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream: %w", err)
	}
	return nil
}
