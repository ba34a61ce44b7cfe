package nodes

import (
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-shop-assistant/agent/resolver"
)

func ResolveItems(in *GraphState, r *resolver.Resolver, obs Observer) (*GraphState, error) {
	if in == nil {
		return nil, errNilState("resolve_items")
	}

	in.Match, in.Matched = r.ResolveMatch(in.Query, in.Catalog)
	if !in.Matched {
		obs.ObserveResolver("")
		log.Debug().Str("session_id", in.SessionID).Msg("no item context resolved")
		return in, nil
	}

	obs.ObserveResolver(in.Match.Rule)
	event := log.Debug().
		Str("session_id", in.SessionID).
		Str("rule", in.Match.Rule).
		Int("items", len(in.Match.Context.ItemList))
	if item := in.Match.Context.CurrentItem; item != nil {
		event = event.Str("item_id", item.ItemID)
	}
	event.Msg("item context resolved")
	return in, nil
}
