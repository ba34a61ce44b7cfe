package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var _ contractx.HistoryStore = (*PostgresStore)(nil)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type turnRow struct {
	bun.BaseModel `bun:"table:conversation_turns,alias:ct"`

	Seq       int64                  `bun:"seq,pk,autoincrement"`
	ID        string                 `bun:"id,notnull,unique"`
	SessionID string                 `bun:"session_id,notnull"`
	Role      string                 `bun:"role,notnull"`
	Content   string                 `bun:"content,notnull"`
	Context   *contractx.ItemContext `bun:"context,type:jsonb"`
	CreatedAt time.Time              `bun:"created_at,notnull"`
}

func newTurnRow(sessionID string, turn contractx.Turn) turnRow {
	return turnRow{
		ID:        turn.ID,
		SessionID: sessionID,
		Role:      string(turn.Role),
		Content:   turn.Content,
		Context:   turn.Context,
		CreatedAt: turn.Timestamp,
	}
}

func (r turnRow) turn() contractx.Turn {
	turn := contractx.Turn{
		ID:        r.ID,
		Role:      contractx.Role(r.Role),
		Content:   r.Content,
		Timestamp: r.CreatedAt.UTC(),
		Context:   r.Context,
	}
	if turn.Context.IsEmpty() {
		turn.Context = nil
	}
	return turn
}

// PostgresStore keeps turns in a single table; Append compacts the session
// back to MaxTurns rows inside the insert transaction.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := &PostgresStore{db: db, now: time.Now}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*turnRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create conversation_turns: %w", contractx.ErrSessionStore, err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*turnRow)(nil)).
		Index("conversation_turns_session_seq_idx").
		Column("session_id", "seq").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create conversation_turns index: %w", contractx.ErrSessionStore, err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, sessionID string, limit int) ([]contractx.Turn, error) {
	id, err := validSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	var rows []turnRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", id).
		OrderExpr("seq DESC").
		Limit(ClampLimit(limit)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select history: %w", contractx.ErrSessionStore, err)
	}

	turns := make([]contractx.Turn, len(rows))
	for i, row := range rows {
		turns[len(rows)-1-i] = row.turn()
	}
	return turns, nil
}

func (s *PostgresStore) Append(ctx context.Context, sessionID string, turn contractx.Turn) error {
	id, err := validSessionID(sessionID)
	if err != nil {
		return err
	}
	turn, err = stampTurn(turn, s.now())
	if err != nil {
		return err
	}
	row := newTurnRow(id, turn)

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Serializes concurrent appends to one session for the rest of the tx.
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", id); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}

		keep := tx.NewSelect().
			Model((*turnRow)(nil)).
			Column("seq").
			Where("session_id = ?", id).
			OrderExpr("seq DESC").
			Limit(MaxTurns)
		_, err := tx.NewDelete().
			Model((*turnRow)(nil)).
			Where("session_id = ?", id).
			Where("seq NOT IN (?)", keep).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: append turn: %w", contractx.ErrSessionStore, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	id, err := validSessionID(sessionID)
	if err != nil {
		return err
	}
	if _, err := s.db.NewDelete().
		Model((*turnRow)(nil)).
		Where("session_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: delete session: %w", contractx.ErrSessionStore, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
