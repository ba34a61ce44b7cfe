package state

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

const (
	// MaxTurns is the retention bound of every session history.
	MaxTurns = 10
	// DefaultHistoryLimit is how many turns a read returns when no limit is given.
	DefaultHistoryLimit = 5
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidRole    = errors.New("turn role must be user or assistant")
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend string `envconfig:"BACKEND" default:"memory"`
}

// ClampLimit maps a requested history size onto [1, MaxTurns]; non-positive
// values mean DefaultHistoryLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxTurns {
		return MaxTurns
	}
	return limit
}

// NormalizeSessionID falls back to the shared default session.
func NormalizeSessionID(sessionID string) string {
	if id := strings.TrimSpace(sessionID); id != "" {
		return id
	}
	return contractx.DefaultSessionID
}

// stampTurn validates a turn and fills id and timestamp when missing.
func stampTurn(turn contractx.Turn, now time.Time) (contractx.Turn, error) {
	if turn.Role != contractx.RoleUser && turn.Role != contractx.RoleAssistant {
		return contractx.Turn{}, ErrInvalidRole
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now.UTC()
	}
	if turn.Context.IsEmpty() {
		turn.Context = nil
	}
	return turn, nil
}

func validSessionID(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", ErrInvalidSession
	}
	return id, nil
}

func tail(turns []contractx.Turn, n int) []contractx.Turn {
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return append([]contractx.Turn(nil), turns...)
}
