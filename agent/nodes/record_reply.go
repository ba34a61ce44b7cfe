package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/tanpawarit/chative-shop-assistant/agent/llm"
)

// RecordReply stores the assistant turn. A successful reply carries this
// turn's resolved context; an apology carries none.
func RecordReply(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, errNilState("record_reply")
	}

	var attached *contractx.ItemContext
	if in.Completion.Outcome == llm.OutcomeOK {
		attached = in.Resolved()
	}

	if err := appendAssistant(ctx, store, in, in.Completion.Text, attached); err != nil {
		return GraphOutput{}, err
	}
	return GraphOutput{
		Result:  buildResult(in.RawQuery, in.Completion.Text, attached),
		Outcome: in.Completion.Outcome,
	}, nil
}

// FeaturedFallback answers without a model by listing the first catalog items.
func FeaturedFallback(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, errNilState("featured_fallback")
	}

	featured := llm.Featured(in.Catalog)
	text := llm.FeaturedListing(featured)
	in.Completion = llm.Completion{Text: text, Outcome: llm.OutcomeDegraded}

	var attached *contractx.ItemContext
	if len(featured) > 0 {
		attached = &contractx.ItemContext{ItemList: featured}
	}

	if err := appendAssistant(ctx, store, in, text, attached); err != nil {
		return GraphOutput{}, err
	}
	return GraphOutput{
		Result:  buildResult(in.RawQuery, text, attached),
		Outcome: llm.OutcomeDegraded,
	}, nil
}

func appendAssistant(
	ctx context.Context,
	store contractx.HistoryStore,
	in *GraphState,
	text string,
	attached *contractx.ItemContext,
) error {
	turn := contractx.Turn{
		Role:    contractx.RoleAssistant,
		Content: text,
		Context: attached,
	}
	if err := store.Append(ctx, in.SessionID, turn); err != nil {
		return fmt.Errorf("record reply: %w", err)
	}
	return nil
}

func buildResult(query, text string, attached *contractx.ItemContext) contractx.QueryResult {
	result := contractx.QueryResult{
		Response: text,
		Query:    query,
		Format:   contractx.FormatText,
	}
	if attached == nil {
		return result
	}
	if attached.CurrentItem != nil {
		item := *attached.CurrentItem
		result.ItemData = &item
	}
	if len(attached.ItemList) > 0 {
		result.Items = append([]contractx.Item(nil), attached.ItemList...)
	}
	return result
}
