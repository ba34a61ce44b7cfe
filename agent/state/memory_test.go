package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

func userTurn(content string) contractx.Turn {
	return contractx.Turn{Role: contractx.RoleUser, Content: content}
}

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	turns, err := store.History(context.Background(), "never-seen", 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("History() len = %d, want 0", len(turns))
	}
}

func TestMemoryStoreAppendStampsTurn(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return fixed }

	if err := store.Append(context.Background(), "s1", userTurn("hello")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns, err := store.History(context.Background(), "s1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("History() len = %d, want 1", len(turns))
	}
	if turns[0].ID == "" {
		t.Fatal("Append() did not assign an id")
	}
	if !turns[0].Timestamp.Equal(fixed) {
		t.Fatalf("Timestamp = %v, want %v", turns[0].Timestamp, fixed)
	}
	if turns[0].Context != nil {
		t.Fatalf("Context = %#v, want nil", turns[0].Context)
	}
}

func TestMemoryStoreEvictsOldestBeyondBound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	for i := 1; i <= MaxTurns+1; i++ {
		if err := store.Append(ctx, "s1", userTurn(fmt.Sprintf("t%d", i))); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	turns, err := store.History(ctx, "s1", MaxTurns)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != MaxTurns {
		t.Fatalf("History() len = %d, want %d", len(turns), MaxTurns)
	}
	if turns[0].Content != "t2" {
		t.Fatalf("oldest turn = %q, want t2", turns[0].Content)
	}
	if turns[MaxTurns-1].Content != "t11" {
		t.Fatalf("newest turn = %q, want t11", turns[MaxTurns-1].Content)
	}
}

func TestMemoryStoreHistoryLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	for i := 1; i <= 8; i++ {
		if err := store.Append(ctx, "s1", userTurn(fmt.Sprintf("t%d", i))); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	tests := []struct {
		limit     int
		wantLen   int
		wantFirst string
	}{
		{limit: 0, wantLen: 5, wantFirst: "t4"},
		{limit: -3, wantLen: 5, wantFirst: "t4"},
		{limit: 2, wantLen: 2, wantFirst: "t7"},
		{limit: 50, wantLen: 8, wantFirst: "t1"},
	}
	for _, tt := range tests {
		turns, err := store.History(ctx, "s1", tt.limit)
		if err != nil {
			t.Fatalf("History(%d) error = %v", tt.limit, err)
		}
		if len(turns) != tt.wantLen {
			t.Fatalf("History(%d) len = %d, want %d", tt.limit, len(turns), tt.wantLen)
		}
		if turns[0].Content != tt.wantFirst {
			t.Fatalf("History(%d)[0] = %q, want %q", tt.limit, turns[0].Content, tt.wantFirst)
		}
		if turns[len(turns)-1].Content != "t8" {
			t.Fatalf("History(%d) newest = %q, want t8", tt.limit, turns[len(turns)-1].Content)
		}
	}
}

func TestMemoryStoreHistoryIsIdempotentAndDetached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Append(ctx, "s1", userTurn("a")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	first, _ := store.History(ctx, "s1", 5)
	first[0].Content = "mutated"
	second, _ := store.History(ctx, "s1", 5)

	if second[0].Content != "a" {
		t.Fatalf("History() leaked internal slice, got %q", second[0].Content)
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Append(ctx, "a", userTurn("for a"))
	_ = store.Append(ctx, "b", userTurn("for b"))

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	a, _ := store.History(ctx, "a", 5)
	b, _ := store.History(ctx, "b", 5)
	if len(a) != 0 {
		t.Fatalf("History(a) len = %d, want 0", len(a))
	}
	if len(b) != 1 || b[0].Content != "for b" {
		t.Fatalf("History(b) = %#v", b)
	}
}

func TestMemoryStoreRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Append(ctx, "  ", userTurn("x")); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Append() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Append(ctx, "s1", contractx.Turn{Role: "system", Content: "x"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("Append() error = %v, want ErrInvalidRole", err)
	}
	if _, err := store.History(ctx, "", 5); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("History() error = %v, want ErrInvalidSession", err)
	}
}

func TestMemoryStoreConcurrentAppendsStayBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, "shared", userTurn(fmt.Sprintf("t%d", i)))
		}(i)
	}
	wg.Wait()

	turns, err := store.History(ctx, "shared", MaxTurns)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != MaxTurns {
		t.Fatalf("History() len = %d, want %d", len(turns), MaxTurns)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestNormalizeSessionID(t *testing.T) {
	t.Parallel()

	if got := NormalizeSessionID("   "); got != contractx.DefaultSessionID {
		t.Fatalf("NormalizeSessionID(blank) = %q", got)
	}
	if got := NormalizeSessionID(" abc "); got != "abc" {
		t.Fatalf("NormalizeSessionID(abc) = %q", got)
	}
}
