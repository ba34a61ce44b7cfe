package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/chative-shop-assistant/pkg/openrouter"
)

var _ contractx.Generator = (*ClientGenerator)(nil)

// ClientGenerator calls the chat completions endpoint directly with the
// openai-go SDK.
type ClientGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewClientGenerator(client *openai.Client, cfg openrouterx.Config) (*ClientGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is nil", contractx.ErrValidation)
	}
	g := &ClientGenerator{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		temperature: float64(cfg.Temperature),
	}
	if cfg.MaxCompletionToken != nil {
		g.maxTokens = int64(*cfg.MaxCompletionToken)
	}
	return g, nil
}

func (g *ClientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(g.maxTokens)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &InvokeError{Cause: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", contractx.ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", contractx.ErrEmptyResponse
	}
	return text, nil
}
