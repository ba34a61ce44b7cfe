package contract

import "context"

// Catalog is the read-only query surface over item records.
type Catalog interface {
	All() []Item
	Search(opts SearchOptions) []Item
	GetByID(id string) (Item, bool)
}

type CatalogSource interface {
	Load(ctx context.Context) (Catalog, error)
}

// Generator turns a composed prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type HistoryStore interface {
	History(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turn Turn) error
	Delete(ctx context.Context, sessionID string) error
}
