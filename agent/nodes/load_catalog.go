package nodes

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-shop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

// LoadCatalog never fails the request: a broken data file degrades to an
// empty catalog.
func LoadCatalog(
	ctx context.Context,
	in *GraphState,
	source contractx.CatalogSource,
	obs Observer,
) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("load_catalog")
	}

	cat, err := source.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("catalog unavailable, continuing with empty catalog")
	}
	if cat == nil {
		cat = catalog.Empty()
	}

	in.Catalog = cat
	obs.ObserveCatalog(len(cat.All()))
	return in, nil
}
