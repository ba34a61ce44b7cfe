// Package resolver picks the catalog items a customer utterance is about.
//
// Matchers run in a fixed priority order and the first one that produces a
// non-empty context wins; results from different matchers are never merged.
package resolver

import (
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

// MaxListItems bounds every item list produced by a matcher.
const MaxListItems = 5

type Matcher interface {
	Name() string
	Match(query string, catalog contractx.Catalog) *contractx.ItemContext
}

type Resolver struct {
	matchers []Matcher
}

// Match reports which matcher fired alongside the resolved context.
type Match struct {
	Rule    string
	Context *contractx.ItemContext
}

// New builds a resolver over the given matchers. With no matchers it uses
// DefaultMatchers.
func New(matchers ...Matcher) *Resolver {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Resolver{matchers: matchers}
}

func DefaultMatchers() []Matcher {
	return []Matcher{
		SKUMatcher{},
		PriceThresholdMatcher{},
		CategoryMatcher{Categories: DefaultCategories()},
		NameMatcher{},
	}
}

// Resolve returns nil when no matcher found anything for this query.
func (r *Resolver) Resolve(query string, catalog contractx.Catalog) *contractx.ItemContext {
	m, ok := r.ResolveMatch(query, catalog)
	if !ok {
		return nil
	}
	return m.Context
}

func (r *Resolver) ResolveMatch(query string, catalog contractx.Catalog) (Match, bool) {
	if catalog == nil {
		return Match{}, false
	}
	for _, m := range r.matchers {
		ctx := m.Match(query, catalog)
		if ctx.IsEmpty() {
			continue
		}
		return Match{Rule: m.Name(), Context: ctx}, true
	}
	return Match{}, false
}

func firstN(items []contractx.Item, n int) []contractx.Item {
	if len(items) > n {
		items = items[:n]
	}
	return append([]contractx.Item(nil), items...)
}
