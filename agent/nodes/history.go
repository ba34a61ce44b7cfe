package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/tanpawarit/chative-shop-assistant/agent/prompt"
)

// ReadHistory loads the prompt window before the current query is recorded.
func ReadHistory(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("read_history")
	}

	turns, err := store.History(ctx, in.SessionID, prompt.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	in.History = turns
	return in, nil
}

func RecordQuery(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("record_query")
	}

	turn := contractx.Turn{
		Role:      contractx.RoleUser,
		Content:   in.Query,
		Timestamp: in.Now,
	}
	if err := store.Append(ctx, in.SessionID, turn); err != nil {
		return nil, fmt.Errorf("record query: %w", err)
	}
	return in, nil
}
