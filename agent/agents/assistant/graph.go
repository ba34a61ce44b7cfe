package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	nodex "github.com/tanpawarit/chative-shop-assistant/agent/nodes"
)

const (
	nodeComposePrompt    = "compose_prompt"
	nodeFeaturedFallback = "featured_fallback"
)

func (s *Service) compileQueryGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_catalog",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadCatalog(ctx, in, s.catalog, s.metrics)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_catalog: %w", err)
	}

	if err := graph.AddLambdaNode("read_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReadHistory(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node read_history: %w", err)
	}

	if err := graph.AddLambdaNode("record_query",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordQuery(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_query: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_items",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveItems(in, s.resolver, s.metrics)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_items: %w", err)
	}

	if err := graph.AddLambdaNode(nodeComposePrompt,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ComposePrompt(ctx, in, s.compositor)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("generate_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GenerateReply(ctx, in, s.generator, s.metrics)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate_reply: %w", err)
	}

	if err := graph.AddLambdaNode("record_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.RecordReply(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_reply: %w", err)
	}

	if err := graph.AddLambdaNode(nodeFeaturedFallback,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FeaturedFallback(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node featured_fallback: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: query graph state is nil", contractx.ErrValidation)
			}
			if s.generator == nil {
				return nodeFeaturedFallback, nil
			}
			return nodeComposePrompt, nil
		},
		map[string]bool{
			nodeComposePrompt:    true,
			nodeFeaturedFallback: true,
		},
	)
	if err := graph.AddBranch("resolve_items", branch); err != nil {
		return nil, fmt.Errorf("add query branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_catalog"},
		{"load_catalog", "read_history"},
		{"read_history", "record_query"},
		{"record_query", "resolve_items"},
		{nodeComposePrompt, "generate_reply"},
		{"generate_reply", "record_reply"},
		{"record_reply", compose.END},
		{nodeFeaturedFallback, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.handle_query"))
	if err != nil {
		return nil, fmt.Errorf("compile assistant graph: %w", err)
	}
	return runner, nil
}
