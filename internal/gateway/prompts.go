package gateway

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"shopassist/internal/catalog"
)

// The completion-backed features build their prompts as eino chat templates:
// fixed instruction text with the per-request context injected as template
// variables.

var recommendTemplate = prompt.FromMessages(schema.FString,
	schema.SystemMessage("You rank storefront products for personalized recommendations."),
	schema.UserMessage(`Shopper interests: {interests}
Already viewed: {viewed}
In cart: {cart}

{catalog}

Return up to 8 product ids the shopper is most likely to buy next, best first, as a single comma-separated list of ids and nothing else. Never include viewed or in-cart ids.`),
)

func recommendMessages(ctx context.Context, rc RecommendationContext, items []catalog.Product) ([]*schema.Message, error) {
	interests := "(none)"
	if len(rc.Interests) > 0 {
		interests = strings.Join(rc.Interests, ", ")
	}
	return recommendTemplate.Format(ctx, map[string]any{
		"interests": interests,
		"viewed":    strings.Join(rc.ViewedIDs, ", "),
		"cart":      strings.Join(rc.CartIDs, ", "),
		"catalog":   serializeProducts(items),
	})
}

var searchTemplate = prompt.FromMessages(schema.FString,
	schema.SystemMessage("You rank storefront products by semantic relevance to a search query."),
	schema.UserMessage(`Query: {query}

{catalog}

Return the ids of catalog products relevant to the query, most relevant first, as a single comma-separated list of ids and nothing else. Return at most 20 ids and no id that is not in the catalog.`),
)

func searchMessages(ctx context.Context, query string, items []catalog.Product) ([]*schema.Message, error) {
	return searchTemplate.Format(ctx, map[string]any{
		"query":   query,
		"catalog": serializeProducts(items),
	})
}

// Literal braces in FString templates are doubled so the formatter leaves
// them in place.
var sentimentTemplate = prompt.FromMessages(schema.FString,
	schema.SystemMessage(`You classify the sentiment of product reviews. Reply with a single JSON object: {{"sentiment": "positive"|"negative"|"neutral", "confidence": 0.0-1.0}}. No other text.`),
	schema.UserMessage("{review}"),
)

func sentimentMessages(ctx context.Context, reviewText string) ([]*schema.Message, error) {
	return sentimentTemplate.Format(ctx, map[string]any{"review": reviewText})
}

func serializeProducts(items []catalog.Product) string {
	digests := make([]catalog.Digest, 0, len(items))
	for _, p := range items {
		digests = append(digests, p.Digest())
	}
	return serializeDigests(digests)
}
