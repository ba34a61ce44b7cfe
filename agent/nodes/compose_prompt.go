package nodes

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/tanpawarit/chative-shop-assistant/agent/llm"
	"github.com/tanpawarit/chative-shop-assistant/agent/prompt"
)

func ComposePrompt(ctx context.Context, in *GraphState, compositor *prompt.Compositor) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("compose_prompt")
	}

	composition, err := compositor.Compose(ctx, prompt.Input{
		Query:    in.Query,
		History:  in.History,
		Resolved: in.Resolved(),
		Catalog:  in.Catalog,
	})
	if err != nil {
		return nil, err
	}
	in.Composition = composition
	return in, nil
}

// GenerateReply never returns the gateway error; it is folded into the
// apology text of the completion.
func GenerateReply(
	ctx context.Context,
	in *GraphState,
	gen contractx.Generator,
	obs Observer,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("generate_reply")
	}

	started := time.Now()
	in.Completion = llm.Complete(ctx, gen, in.Composition.Prompt)
	obs.ObserveModelLatency(time.Since(started))

	if in.Completion.Err != nil {
		log.Error().Err(in.Completion.Err).Str("session_id", in.SessionID).Msg("model call failed")
	}
	return in, nil
}
