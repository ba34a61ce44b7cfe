package nodes

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/tanpawarit/chative-shop-assistant/agent/llm"
	"github.com/tanpawarit/chative-shop-assistant/agent/prompt"
	"github.com/tanpawarit/chative-shop-assistant/agent/resolver"
	statex "github.com/tanpawarit/chative-shop-assistant/agent/state"
)

type GraphInput struct {
	SessionID string
	Query     string
}

type GraphOutput struct {
	Result  contractx.QueryResult
	Outcome llm.Outcome
}

// GraphState is threaded through every node of one query.
type GraphState struct {
	SessionID string
	// Query is trimmed for matching and prompting; RawQuery is echoed back.
	Query    string
	RawQuery string
	Now      time.Time

	Catalog contractx.Catalog
	History []contractx.Turn

	Match   resolver.Match
	Matched bool

	Composition prompt.Composition
	Completion  llm.Completion

	Result contractx.QueryResult
}

// Resolved is this turn's resolver output, or nil.
func (s *GraphState) Resolved() *contractx.ItemContext {
	if s == nil || !s.Matched {
		return nil
	}
	return s.Match.Context
}

// Observer receives pipeline measurements. A nil *metrics.Metrics satisfies it.
type Observer interface {
	ObserveResolver(rule string)
	ObserveModelLatency(d time.Duration)
	ObserveCatalog(items int)
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	return &GraphState{
		SessionID: statex.NormalizeSessionID(in.SessionID),
		Query:     query,
		RawQuery:  in.Query,
		Now:       nowFn().UTC(),
	}, nil
}
