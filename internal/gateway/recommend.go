package gateway

import (
	"context"
	"sort"
	"strings"

	"shopassist/internal/catalog"
	"shopassist/internal/policy"
)

const maxRecommendations = 8

// Recommend returns up to 8 product ids ranked for the shopper. Ids in the
// viewed or cart sets are never returned. When the provider ranks fewer than
// 8 valid ids, the deterministic ranking tops the list up.
func (g *Gateway) Recommend(ctx context.Context, rc RecommendationContext, items []catalog.Product) ([]string, error) {
	excluded := idSet(rc.ViewedIDs, rc.CartIDs)

	return policy.Run(ctx, g.engine, policy.FeatureRecommend,
		func(callCtx context.Context) ([]string, error) {
			messages, err := recommendMessages(callCtx, rc, items)
			if err != nil {
				return nil, err
			}
			raw, err := g.completer.Complete(callCtx, messages)
			if err != nil {
				return nil, err
			}
			ids := parseIDList(raw, items, excluded, maxRecommendations)
			if len(ids) == 0 {
				return nil, policy.ErrEmptyResult
			}
			if len(ids) < maxRecommendations {
				chosen := idSet(ids)
				for _, id := range g.rankFallback(rc, items, excluded) {
					if len(ids) >= maxRecommendations {
						break
					}
					if !chosen[id] {
						ids = append(ids, id)
						chosen[id] = true
					}
				}
			}
			return ids, nil
		},
		func() ([]string, error) {
			ranked := g.rankFallback(rc, items, excluded)
			if len(ranked) > maxRecommendations {
				ranked = ranked[:maxRecommendations]
			}
			return ranked, nil
		})
}

// rankFallback orders the remaining catalog by interest match first, then
// rating and units sold, descending. The sort is stable so catalog order
// breaks ties.
func (g *Gateway) rankFallback(rc RecommendationContext, items []catalog.Product, excluded map[string]bool) []string {
	candidates := make([]catalog.Product, 0, len(items))
	for _, p := range items {
		if !excluded[p.ID] {
			candidates = append(candidates, p)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		mi, mj := matchesInterest(candidates[i], rc.Interests), matchesInterest(candidates[j], rc.Interests)
		if mi != mj {
			return mi
		}
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		return candidates[i].UnitsSold > candidates[j].UnitsSold
	})

	ids := make([]string, 0, len(candidates))
	for _, p := range candidates {
		ids = append(ids, p.ID)
	}
	return ids
}

func matchesInterest(p catalog.Product, interests []string) bool {
	if len(interests) == 0 {
		return false
	}
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	for _, interest := range interests {
		needle := strings.ToLower(strings.TrimSpace(interest))
		if needle == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(category, needle) {
			return true
		}
	}
	return false
}

// parseIDList extracts a comma-separated id list from raw provider output,
// keeping only ids that exist in the catalog and are not excluded,
// de-duplicated in provider order, clipped to limit.
func parseIDList(raw string, items []catalog.Product, excluded map[string]bool, limit int) []string {
	known := make(map[string]bool, len(items))
	for _, p := range items {
		known[p.ID] = true
	}

	seen := make(map[string]bool)
	var ids []string
	for _, token := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		id := strings.TrimSpace(token)
		if id == "" || !known[id] || excluded[id] || seen[id] {
			continue
		}
		ids = append(ids, id)
		seen[id] = true
		if len(ids) >= limit {
			break
		}
	}
	return ids
}

func idSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, id := range list {
			set[id] = true
		}
	}
	return set
}
