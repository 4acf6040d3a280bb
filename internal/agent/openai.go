package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Uokoroafor/hot-take-generator/internal/config"
)

const (
	openAITemperature = 0.8
	openAIMaxTokens   = 200
)

// OpenAI generates hot takes through the OpenAI chat completions API.
type OpenAI struct {
	client     openai.Client
	model      string
	configured bool
}

func NewOpenAI(cfg config.Config) *OpenAI {
	return &OpenAI{
		client:     openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		model:      cfg.OpenAIModel,
		configured: cfg.OpenAIAPIKey != "",
	}
}

func (a *OpenAI) Name() string     { return "OpenAI Agent" }
func (a *OpenAI) Model() string    { return a.model }
func (a *OpenAI) Configured() bool { return a.configured }

func (a *OpenAI) params(topic, style, searchContext string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(style, searchContext != "")),
			openai.UserMessage(UserPrompt(topic, searchContext)),
		},
		Temperature: openai.Float(openAITemperature),
		MaxTokens:   openai.Int(openAIMaxTokens),
	}
}

func (a *OpenAI) GenerateHotTake(ctx context.Context, topic, style, searchContext string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, a.params(topic, style, searchContext))
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *OpenAI) StreamHotTake(ctx context.Context, topic, style, searchContext string, onDelta func(string) error) error {
	stream := a.client.Chat.Completions.NewStreaming(ctx, a.params(topic, style, searchContext))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	return nil
}
