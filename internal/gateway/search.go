package gateway

import (
	"context"
	"strings"

	"shopassist/internal/catalog"
	"shopassist/internal/policy"
)

const maxSearchResults = 20

// Search returns product ids matching the query. With a provider available
// it ranks semantically and then appends lexical matches the ranking missed,
// so a product whose name literally contains the query is always findable.
// Without one it is a pure lexical filter in catalog order.
func (g *Gateway) Search(ctx context.Context, query string, items []catalog.Product) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	return policy.Run(ctx, g.engine, policy.FeatureSearch,
		func(callCtx context.Context) ([]string, error) {
			promptItems := items
			if max := g.settings.Chat.MaxCatalogItems; len(promptItems) > max {
				promptItems = promptItems[:max]
			}
			messages, err := searchMessages(callCtx, query, promptItems)
			if err != nil {
				return nil, err
			}
			raw, err := g.completer.Complete(callCtx, messages)
			if err != nil {
				return nil, err
			}
			ids := parseIDList(raw, items, nil, maxSearchResults)
			if len(ids) == 0 {
				return nil, policy.ErrEmptyResult
			}
			return appendLexicalMatches(ids, query, items), nil
		},
		func() ([]string, error) {
			return lexicalSearch(query, items), nil
		})
}

// appendLexicalMatches adds lexical hits missing from the ranked list,
// preserving first-seen order and de-duplicating by id.
func appendLexicalMatches(ranked []string, query string, items []catalog.Product) []string {
	seen := idSet(ranked)
	for _, id := range lexicalSearch(query, items) {
		if !seen[id] {
			ranked = append(ranked, id)
			seen[id] = true
		}
	}
	return ranked
}

// lexicalSearch filters through catalog.Filter and keeps only the ids, in
// original catalog order.
func lexicalSearch(query string, items []catalog.Product) []string {
	matches := catalog.Filter(items, query)
	ids := make([]string, 0, len(matches))
	for _, p := range matches {
		ids = append(ids, p.ID)
	}
	return ids
}
