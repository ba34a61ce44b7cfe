package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-shop-assistant/agent/agents/assistant"
	"github.com/tanpawarit/chative-shop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/tanpawarit/chative-shop-assistant/agent/llm"
	statex "github.com/tanpawarit/chative-shop-assistant/agent/state"
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
	metricsx "github.com/tanpawarit/chative-shop-assistant/pkg/metrics"
)

// historyStore is what every session backend provides.
type historyStore interface {
	contractx.HistoryStore
	Close() error
}

type app struct {
	store     historyStore
	metrics   *metricsx.Metrics
	assistant *assistant.Service
}

func (a *app) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func buildApp(ctx context.Context, metricsNamespace string) (*app, error) {
	catalogCfg, err := configx.New[catalog.Config]("CATALOG")
	if err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	sessionCfg, err := configx.New[statex.Config]("SESSION")
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}
	llmCfg, err := configx.New[llm.Config]("OPENROUTER")
	if err != nil {
		return nil, fmt.Errorf("load openrouter config: %w", err)
	}

	store, err := openStore(ctx, sessionCfg.Backend)
	if err != nil {
		return nil, err
	}

	gen, err := llm.NewGenerator(ctx, *llmCfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build model gateway: %w", err)
	}
	if gen == nil {
		log.Warn().Msg("OPENROUTER_API_KEY is not set, replies will list featured items")
	}

	var metrics *metricsx.Metrics
	if metricsNamespace != "" {
		metrics = metricsx.New(metricsNamespace)
	}

	source := catalog.NewFileSource(*catalogCfg)
	svc, err := assistant.New(source, store,
		assistant.WithGenerator(gen),
		assistant.WithMetrics(metrics),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Debug().
		Str("catalog", catalogCfg.Path).
		Str("session_backend", sessionCfg.Backend).
		Bool("model", gen != nil).
		Msg("assistant ready")

	return &app{
		store:     store,
		metrics:   metrics,
		assistant: svc,
	}, nil
}

func openStore(ctx context.Context, backend string) (historyStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", statex.BackendMemory:
		return statex.NewMemoryStore(), nil
	case statex.BackendRedis:
		cfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, fmt.Errorf("load upstash redis config: %w", err)
		}
		store, err := statex.NewUpstashRedisStore(*cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case statex.BackendPostgres:
		cfg, err := configx.New[statex.PostgresConfig]("POSTGRES")
		if err != nil {
			return nil, fmt.Errorf("load postgres config: %w", err)
		}
		store, err := statex.NewPostgresStore(ctx, *cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", contractx.ErrValidation, backend)
	}
}
