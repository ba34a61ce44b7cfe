package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-shop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	nodex "github.com/tanpawarit/chative-shop-assistant/agent/nodes"
	"github.com/tanpawarit/chative-shop-assistant/agent/prompt"
	"github.com/tanpawarit/chative-shop-assistant/agent/resolver"
	statex "github.com/tanpawarit/chative-shop-assistant/agent/state"
	metricsx "github.com/tanpawarit/chative-shop-assistant/pkg/metrics"
)

var ErrEmptyQuery = nodex.ErrEmptyQuery

type Option func(*Service)

// WithGenerator sets the model gateway. Without one the service answers with
// the featured listing.
func WithGenerator(gen contractx.Generator) Option {
	return func(s *Service) {
		s.generator = gen
	}
}

func WithResolver(r *resolver.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

func WithMetrics(m *metricsx.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service answers customer queries: it resolves item context, composes the
// prompt from recent history and records both sides of the exchange.
type Service struct {
	catalog    contractx.CatalogSource
	store      contractx.HistoryStore
	resolver   *resolver.Resolver
	compositor *prompt.Compositor
	generator  contractx.Generator
	metrics    *metricsx.Metrics

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

func New(source contractx.CatalogSource, store contractx.HistoryStore, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("catalog source is required")
	}
	if store == nil {
		return nil, errors.New("history store is required")
	}

	s := &Service{
		catalog:    source,
		store:      store,
		resolver:   resolver.New(),
		compositor: prompt.NewCompositor(),
		locks:      newSessionLocks(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	graphRunner, err := s.compileQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// Degraded reports whether replies come from the featured listing instead of
// a model.
func (s *Service) Degraded() bool {
	return s.generator == nil
}

// Handle runs one query. Requests for the same session are serialized so
// turns are recorded in arrival order.
func (s *Service) Handle(ctx context.Context, req contractx.QueryRequest) (contractx.QueryResult, error) {
	sessionID := statex.NormalizeSessionID(req.SessionID)
	unlock := s.locks.lock(sessionID)
	defer unlock()

	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Query:     req.Query,
	})
	if err != nil {
		s.metrics.ObserveQuery(outcomeFor(err))
		if errors.Is(err, contractx.ErrSessionStore) {
			s.metrics.ObserveStoreFailure("append")
		}
		return contractx.QueryResult{}, err
	}

	s.metrics.ObserveQuery(string(out.Outcome))
	log.Info().
		Str("session_id", sessionID).
		Bool("item_data", out.Result.ItemData != nil).
		Int("items", len(out.Result.Items)).
		Str("outcome", string(out.Outcome)).
		Msg("query handled")
	return out.Result, nil
}

// History returns up to limit recent turns; non-positive means the default.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]contractx.Turn, error) {
	return s.store.History(ctx, statex.NormalizeSessionID(sessionID), limit)
}

func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	sessionID = statex.NormalizeSessionID(sessionID)
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID)
}

// Catalog returns the current catalog, or an empty one when loading fails.
func (s *Service) Catalog(ctx context.Context) contractx.Catalog {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog unavailable")
	}
	if cat == nil {
		return catalog.Empty()
	}
	return cat
}

func outcomeFor(err error) string {
	if errors.Is(err, contractx.ErrValidation) {
		return "invalid"
	}
	return "error"
}
