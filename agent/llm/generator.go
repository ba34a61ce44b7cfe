package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/chative-shop-assistant/pkg/openrouter"
)

var _ contractx.Generator = (*ChatGenerator)(nil)

// ChatGenerator sends the composed prompt as a single user message through an
// eino chat model graph.
type ChatGenerator struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewChatGenerator(ctx context.Context, chatModel einomodel.BaseChatModel) (*ChatGenerator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is nil", contractx.ErrValidation)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add completion prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add completion model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add completion edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add completion edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add completion edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.completion_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile completion graph: %w", err)
	}
	return &ChatGenerator{runner: runner}, nil
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.runner.Invoke(ctx, map[string]any{"prompt": prompt})
	if err != nil {
		return "", &InvokeError{Cause: err}
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", contractx.ErrEmptyResponse
	}
	return strings.TrimSpace(msg.Content), nil
}

// NewGenerator builds the configured provider. It returns nil without error
// when no API key is set, which callers treat as degraded mode.
func NewGenerator(ctx context.Context, cfg Config) (contractx.Generator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	orCfg := cfg.Config
	switch cfg.provider() {
	case ProviderOpenAI:
		gen, err := NewClientGenerator(openrouterx.NewClient(orCfg), orCfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, err
		}
		gen, err := NewChatGenerator(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}
