package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

// FeaturedCount is how many catalog items the degraded reply lists.
const FeaturedCount = 5

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFailed   Outcome = "failed"
	OutcomeDegraded Outcome = "degraded"
)

// Completion is the result of one gateway call. Err is set only for
// OutcomeFailed; Text always holds what the customer should read.
type Completion struct {
	Text    string
	Outcome Outcome
	Err     error
}

// Complete runs the prompt through gen and maps any failure to the apology
// text. A nil generator means no model is configured.
func Complete(ctx context.Context, gen contractx.Generator, prompt string) Completion {
	if gen == nil {
		return Completion{Outcome: OutcomeDegraded}
	}

	text, err := gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = contractx.ErrEmptyResponse
	}
	if err != nil {
		return Completion{Text: ApologyFor(err), Outcome: OutcomeFailed, Err: err}
	}
	return Completion{Text: strings.TrimSpace(text), Outcome: OutcomeOK}
}

// InvokeError is a failed provider call. It matches contractx.ErrModelInvoke
// and keeps the provider's error as Cause.
type InvokeError struct {
	Cause error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("%v: %v", contractx.ErrModelInvoke, e.Cause)
}

func (e *InvokeError) Unwrap() []error {
	return []error{contractx.ErrModelInvoke, e.Cause}
}

// ApologyFor embeds the provider's own error text, not the gateway wrapping.
func ApologyFor(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = failureText(err)
	}
	return fmt.Sprintf("I apologize, but I encountered an error: %s. Please try again with a more specific query.", msg)
}

// Featured returns the first FeaturedCount items in catalog order.
func Featured(catalog contractx.Catalog) []contractx.Item {
	if catalog == nil {
		return nil
	}
	items := catalog.All()
	if len(items) > FeaturedCount {
		items = items[:FeaturedCount]
	}
	return items
}

// FeaturedListing is the reply used when no model is configured.
func FeaturedListing(items []contractx.Item) string {
	var b strings.Builder
	b.WriteString("I can help you find items in our inventory. Here are some featured products:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s ($%.2f)", item.ItemName, item.Price)
		if item.MaximumDiscount > 0 {
			fmt.Fprintf(&b, " - %.0f%% discount available!", item.DiscountPercent())
		}
		b.WriteString("\n")
	}
	b.WriteString("\nHow can I assist you today?")
	return b.String()
}

func failureText(err error) string {
	var invoke *InvokeError
	if !errors.As(err, &invoke) || invoke.Cause == nil {
		return err.Error()
	}
	cause := invoke.Cause
	for next := errors.Unwrap(cause); next != nil; next = errors.Unwrap(cause) {
		cause = next
	}
	return cause.Error()
}
