package prompt

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

const (
	// HistoryWindow is how many past turns feed the prompt.
	HistoryWindow = 5
	// MaxFillerItems bounds the general catalog listing in the briefing.
	MaxFillerItems = 15
	// MaxAssistantChars is the transcript length above which assistant turns are cut.
	MaxAssistantChars = 200

	noDescription = "No description available"
)

type Input struct {
	Query    string
	History  []contractx.Turn
	Resolved *contractx.ItemContext
	Catalog  contractx.Catalog
}

type Composition struct {
	Prompt string
	// Context is the merged item context; nil when nothing is known.
	Context *contractx.ItemContext
}

// Compositor renders prompts from the embedded assistant template.
type Compositor struct {
	template einoprompt.ChatTemplate
}

func NewCompositor() *Compositor {
	return &Compositor{
		template: einoprompt.FromMessages(
			schema.FString,
			schema.UserMessage(AssistantTemplate()),
		),
	}
}

func (c *Compositor) Compose(ctx context.Context, in Input) (Composition, error) {
	history := in.History
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	merged := Merge(history, in.Resolved)

	messages, err := c.template.Format(ctx, map[string]any{
		"history": Transcript(history),
		"query":   in.Query,
		"items":   Briefing(merged, in.Catalog),
	})
	if err != nil {
		return Composition{}, fmt.Errorf("format assistant prompt: %w", err)
	}
	if len(messages) == 0 || messages[0] == nil {
		return Composition{}, fmt.Errorf("format assistant prompt: no message rendered")
	}

	return Composition{
		Prompt:  messages[0].Content,
		Context: merged,
	}, nil
}

// Merge walks history newest first and carries the most recent current item
// and item list independently. The resolved context only fills the parts that
// nothing carried.
func Merge(history []contractx.Turn, resolved *contractx.ItemContext) *contractx.ItemContext {
	merged := &contractx.ItemContext{}
	for i := len(history) - 1; i >= 0; i-- {
		tc := history[i].Context
		if tc.IsEmpty() {
			continue
		}
		if merged.CurrentItem == nil && tc.CurrentItem != nil {
			item := *tc.CurrentItem
			merged.CurrentItem = &item
		}
		if len(merged.ItemList) == 0 && len(tc.ItemList) > 0 {
			merged.ItemList = append([]contractx.Item(nil), tc.ItemList...)
		}
		if merged.CurrentItem != nil && len(merged.ItemList) > 0 {
			break
		}
	}

	if !resolved.IsEmpty() {
		if merged.CurrentItem == nil && resolved.CurrentItem != nil {
			item := *resolved.CurrentItem
			merged.CurrentItem = &item
		}
		if len(merged.ItemList) == 0 && len(resolved.ItemList) > 0 {
			merged.ItemList = append([]contractx.Item(nil), resolved.ItemList...)
		}
	}

	if merged.IsEmpty() {
		return nil
	}
	return merged
}

// Briefing renders the item section of the prompt: the focused item, the
// recent list, then general catalog items not already mentioned.
func Briefing(merged *contractx.ItemContext, catalog contractx.Catalog) string {
	var b strings.Builder
	seen := make(map[string]struct{})

	if merged != nil && merged.CurrentItem != nil {
		item := merged.CurrentItem
		fmt.Fprintf(&b, "[CURRENTLY DISCUSSING] Item: ID=%s, Name=%s, Price=$%.2f, Quantity=%d, Description=%s, Discount=%.0f%%\n",
			item.ItemID, item.ItemName, item.Price, item.ItemQuantity, description(*item), item.DiscountPercent())
		seen[item.ItemID] = struct{}{}
	}

	if merged != nil {
		for i, item := range merged.ItemList {
			fmt.Fprintf(&b, "Recent Item %d: ID=%s, Name=%s, Price=$%.2f, Description=%s, Discount=%.0f%%\n",
				i+1, item.ItemID, item.ItemName, item.Price, description(item), item.DiscountPercent())
			seen[item.ItemID] = struct{}{}
		}
	}

	if catalog == nil {
		return b.String()
	}

	added := 0
	for _, item := range catalog.All() {
		if added == MaxFillerItems {
			break
		}
		if _, ok := seen[item.ItemID]; ok {
			continue
		}
		fmt.Fprintf(&b, "Item: ID=%s, Name=%s, Price=$%.2f, Quantity=%d, Description=%s, Discount=%.0f%%\n",
			item.ItemID, item.ItemName, item.Price, item.ItemQuantity, description(item), item.DiscountPercent())
		added++
	}
	return b.String()
}

// Transcript renders turns oldest first. Long assistant replies are cut so a
// single answer cannot crowd out the rest of the prompt.
func Transcript(history []contractx.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		if turn.Role == contractx.RoleUser {
			fmt.Fprintf(&b, "Customer: %s\n", turn.Content)
			continue
		}
		fmt.Fprintf(&b, "Assistant: %s\n", truncate(turn.Content, MaxAssistantChars))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func description(item contractx.Item) string {
	if strings.TrimSpace(item.ItemDescription) == "" {
		return noDescription
	}
	return item.ItemDescription
}
