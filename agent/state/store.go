package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

const (
	defaultStoreKeyPrefix = "shop:history:"
	defaultStoreTTL       = 24 * time.Hour
	maxResponseSizeBytes  = 2 << 20
)

var _ contractx.HistoryStore = (*UpstashRedisStore)(nil)

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashRedisStore keeps each session as a Redis list of JSON encoded turns,
// accessed through the Upstash REST API.
type UpstashRedisStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
	now        func() time.Time
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type UpstashRedisConfig struct {
	URL       string        `envconfig:"URL" split_words:"true" required:"true"`
	Token     string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true" default:"shop:history:"`
	TTL       time.Duration `envconfig:"TTL" default:"24h"`
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := &UpstashRedisStore{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keyPrefix: defaultStoreKeyPrefix,
		ttl:       defaultStoreTTL,
		now:       time.Now,
	}
	if prefix := strings.TrimSpace(cfg.KeyPrefix); prefix != "" {
		store.keyPrefix = prefix
	}
	if cfg.TTL != 0 {
		store.ttl = cfg.TTL
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}

	return store, nil
}

func (s *UpstashRedisStore) History(ctx context.Context, sessionID string, limit int) ([]contractx.Turn, error) {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := s.exec(ctx, []any{"LRANGE", key, -ClampLimit(limit), -1})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrSessionStore, err)
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return []contractx.Turn{}, nil
	}

	var encoded []string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("%w: decode history payload: %w", contractx.ErrSessionStore, err)
	}

	turns := make([]contractx.Turn, 0, len(encoded))
	for _, raw := range encoded {
		var turn contractx.Turn
		if err := json.Unmarshal([]byte(raw), &turn); err != nil {
			return nil, fmt.Errorf("%w: unmarshal turn: %w", contractx.ErrSessionStore, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append pushes the turn and trims the list to MaxTurns in one MULTI/EXEC
// transaction.
func (s *UpstashRedisStore) Append(ctx context.Context, sessionID string, turn contractx.Turn) error {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return err
	}
	turn, err = stampTurn(turn, s.now())
	if err != nil {
		return err
	}

	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	commands := [][]any{
		{"RPUSH", key, string(payload)},
		{"LTRIM", key, -MaxTurns, -1},
	}
	if s.ttl > 0 {
		commands = append(commands, []any{"EXPIRE", key, ttlSeconds(s.ttl)})
	}

	if _, err := s.execTx(ctx, commands); err != nil {
		return fmt.Errorf("%w: %w", contractx.ErrSessionStore, err)
	}
	return nil
}

func (s *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return err
	}
	if _, err = s.exec(ctx, []any{"DEL", key}); err != nil {
		return fmt.Errorf("%w: %w", contractx.ErrSessionStore, err)
	}
	return nil
}

func (s *UpstashRedisStore) Close() error { return nil }

func (s *UpstashRedisStore) redisKey(sessionID string) (string, error) {
	id, err := validSessionID(sessionID)
	if err != nil {
		return "", err
	}
	prefix := strings.TrimSpace(s.keyPrefix)
	if prefix == "" {
		prefix = defaultStoreKeyPrefix
	}
	return prefix + id, nil
}

func (s *UpstashRedisStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	raw, err := s.post(ctx, s.baseURL, command)
	if err != nil {
		return nil, err
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// execTx sends commands to the multi-exec endpoint. Upstash answers with one
// result object per command.
func (s *UpstashRedisStore) execTx(ctx context.Context, commands [][]any) ([]redisRESTResponse, error) {
	if len(commands) == 0 {
		return nil, errors.New("empty redis transaction")
	}

	raw, err := s.post(ctx, s.baseURL+"/multi-exec", commands)
	if err != nil {
		return nil, err
	}

	var parsed []redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		var single redisRESTResponse
		if json.Unmarshal(raw, &single) == nil && single.Error != "" {
			return nil, errors.New(single.Error)
		}
		return nil, fmt.Errorf("decode redis transaction response: %w", err)
	}
	for i, r := range parsed {
		if r.Error != "" {
			return nil, fmt.Errorf("redis command %d: %s", i, r.Error)
		}
	}
	return parsed, nil
}

func (s *UpstashRedisStore) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if strings.TrimSpace(s.baseURL) == "" {
		return nil, errors.New("empty redis url")
	}
	if strings.TrimSpace(s.token) == "" {
		return nil, errors.New("empty redis token")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
