package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

type Config struct {
	Path              string `default:"data/Items.xlsx"`
	Sheet             string
	ReloadEachRequest bool `envconfig:"RELOAD_EACH_REQUEST" split_words:"true" default:"false"`
}

// LoadFile reads items from path, choosing the decoder by file extension.
func LoadFile(path, sheet string) (*Catalog, error) {
	var (
		items []contractx.Item
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		items, err = loadXLSX(path, sheet)
	case ".yaml", ".yml":
		items, err = loadYAML(path)
	case ".json":
		items, err = loadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		items, err = loadSQLite(path)
	default:
		err = fmt.Errorf("%w: %s", errUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contractx.ErrCatalogLoad, path, err)
	}
	return New(items), nil
}

var _ contractx.CatalogSource = (*FileSource)(nil)

// FileSource loads the catalog from disk, either once (cached for the process)
// or on every call. A failed load is never cached.
type FileSource struct {
	path   string
	sheet  string
	reload bool

	mu     sync.Mutex
	cached *Catalog
}

func NewFileSource(cfg Config) *FileSource {
	return &FileSource{
		path:   strings.TrimSpace(cfg.Path),
		sheet:  strings.TrimSpace(cfg.Sheet),
		reload: cfg.ReloadEachRequest,
	}
}

func (s *FileSource) Load(_ context.Context) (contractx.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reload && s.cached != nil {
		return s.cached, nil
	}

	c, err := LoadFile(s.path, s.sheet)
	if err != nil {
		return Empty(), err
	}
	log.Debug().Str("path", s.path).Int("items", c.Len()).Msg("catalog loaded")
	if !s.reload {
		s.cached = c
	}
	return c, nil
}

// StaticSource always returns the same catalog.
type StaticSource struct {
	Catalog *Catalog
}

func (s StaticSource) Load(context.Context) (contractx.Catalog, error) {
	if s.Catalog == nil {
		return Empty(), nil
	}
	return s.Catalog, nil
}
