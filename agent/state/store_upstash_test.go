package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

func newTestRedisStore(t *testing.T, handler http.HandlerFunc, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]StoreOption{WithHTTPClient(server.Client())}, opts...)
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{
			URL:   server.URL,
			Token: "token",
		},
		opts...,
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey("abc")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "shop:history:abc" {
		t.Fatalf("redisKey() = %q, want %q", got, "shop:history:abc")
	}
}

func TestUpstashRedisStoreRedisKeyEmptySession(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	_, err := store.redisKey("   ")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidSession", err)
	}
}

func TestUpstashRedisStoreAppendUsesMultiExec(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotCommands [][]any
	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotCommands); err != nil {
			t.Errorf("decode commands: %v", err)
		}
		fmt.Fprint(w, `[{"result":3},{"result":"OK"},{"result":1}]`)
	}, WithKeyPrefix("test:"), WithTTL(90*time.Second))

	turn := contractx.Turn{Role: contractx.RoleUser, Content: "hi"}
	if err := store.Append(context.Background(), "session-1", turn); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if gotPath != "/multi-exec" {
		t.Fatalf("path = %q, want /multi-exec", gotPath)
	}
	if len(gotCommands) != 3 {
		t.Fatalf("commands = %#v, want 3 commands", gotCommands)
	}
	if gotCommands[0][0] != "RPUSH" || gotCommands[0][1] != "test:session-1" {
		t.Fatalf("command[0] = %v", gotCommands[0])
	}
	if gotCommands[1][0] != "LTRIM" || gotCommands[1][2] != float64(-MaxTurns) {
		t.Fatalf("command[1] = %v", gotCommands[1])
	}
	if gotCommands[2][0] != "EXPIRE" || gotCommands[2][2] != float64(90) {
		t.Fatalf("command[2] = %v", gotCommands[2])
	}

	var stored contractx.Turn
	if err := json.Unmarshal([]byte(gotCommands[0][2].(string)), &stored); err != nil {
		t.Fatalf("decode pushed turn: %v", err)
	}
	if stored.ID == "" || stored.Content != "hi" {
		t.Fatalf("pushed turn = %#v", stored)
	}
}

func TestUpstashRedisStoreAppendWithoutTTLSkipsExpire(t *testing.T) {
	t.Parallel()

	var gotCommands [][]any
	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		_ = json.NewDecoder(r.Body).Decode(&gotCommands)
		fmt.Fprint(w, `[{"result":1},{"result":"OK"}]`)
	}, WithTTL(0))

	turn := contractx.Turn{Role: contractx.RoleAssistant, Content: "ok"}
	if err := store.Append(context.Background(), "s", turn); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(gotCommands) != 2 {
		t.Fatalf("commands = %#v, want RPUSH and LTRIM only", gotCommands)
	}
}

func TestUpstashRedisStoreAppendSurfacesCommandError(t *testing.T) {
	t.Parallel()

	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"result":1},{"error":"WRONGTYPE"}]`)
	})

	err := store.Append(context.Background(), "s", contractx.Turn{Role: contractx.RoleUser, Content: "x"})
	if !errors.Is(err, contractx.ErrSessionStore) {
		t.Fatalf("Append() error = %v, want ErrSessionStore", err)
	}
}

func TestUpstashRedisStoreHistoryUsesLRange(t *testing.T) {
	t.Parallel()

	older, _ := json.Marshal(contractx.Turn{ID: "1", Role: contractx.RoleUser, Content: "first"})
	newer, _ := json.Marshal(contractx.Turn{ID: "2", Role: contractx.RoleAssistant, Content: "second"})
	result, _ := json.Marshal([]string{string(older), string(newer)})

	var gotCommand []any
	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		_ = json.NewDecoder(r.Body).Decode(&gotCommand)
		fmt.Fprintf(w, `{"result":%s}`, result)
	})

	turns, err := store.History(context.Background(), "session-2", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 2 || turns[0].Content != "first" || turns[1].Content != "second" {
		t.Fatalf("History() = %#v", turns)
	}
	if gotCommand[0] != "LRANGE" || gotCommand[1] != "shop:history:session-2" {
		t.Fatalf("command = %v", gotCommand)
	}
	if gotCommand[2] != float64(-DefaultHistoryLimit) || gotCommand[3] != float64(-1) {
		t.Fatalf("range = %v..%v", gotCommand[2], gotCommand[3])
	}
}

func TestUpstashRedisStoreHistoryEmptyList(t *testing.T) {
	t.Parallel()

	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[]}`)
	})

	turns, err := store.History(context.Background(), "nobody", 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("History() len = %d, want 0", len(turns))
	}
}

func TestUpstashRedisStoreDeleteUsesSessionKey(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		_ = json.NewDecoder(r.Body).Decode(&gotCommand)
		fmt.Fprint(w, `{"result":1}`)
	})

	if err := store.Delete(context.Background(), "session-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotCommand[0] != "DEL" || gotCommand[1] != "shop:history:session-3" {
		t.Fatalf("command = %v", gotCommand)
	}
}

func TestUpstashRedisStoreHTTPErrorIsStoreError(t *testing.T) {
	t.Parallel()

	store := newTestRedisStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	if _, err := store.History(context.Background(), "s", 5); !errors.Is(err, contractx.ErrSessionStore) {
		t.Fatalf("History() error = %v, want ErrSessionStore", err)
	}
}

func TestNewUpstashRedisStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "t"}); err == nil {
		t.Fatal("NewUpstashRedisStore() without url should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("NewUpstashRedisStore() without token should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("NewUpstashRedisStore() with negative ttl should fail")
	}
}
