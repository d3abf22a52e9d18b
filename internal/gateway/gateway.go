// Package gateway exposes the five storefront AI operations: chat,
// recommendations, semantic search, description generation and sentiment
// tagging. Every operation validates its input, routes through the fallback
// policy engine and normalizes provider output, so callers always get a
// well-typed result regardless of provider availability.
package gateway

import (
	"github.com/rs/zerolog"

	"shopassist/internal/config"
	"shopassist/internal/policy"
	"shopassist/internal/provider"
)

// Turn is a single caller-owned conversation turn.
type Turn = provider.Turn

// RecommendationContext carries the per-request signals used for ranking.
type RecommendationContext struct {
	Interests []string `json:"interests,omitempty"`
	ViewedIDs []string `json:"viewed_product_ids,omitempty"`
	CartIDs   []string `json:"cart_product_ids,omitempty"`
}

// SentimentResult is the normalized sentiment classification. Label is always
// one of positive, negative or neutral and Confidence always sits in [0,1],
// on the provider path and the heuristic path alike.
type SentimentResult struct {
	Label      string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// GeneratedText is a generated description bounded by the persistence limit.
type GeneratedText struct {
	Body      string `json:"description"`
	Truncated bool   `json:"truncated"`
}

// Gateway is the feature façade. It is stateless between calls; conversation
// history is caller-supplied and nothing is cached.
type Gateway struct {
	log       zerolog.Logger
	engine    *policy.Engine
	chat      provider.ConversationalModel
	completer provider.CompletionModel
	settings  *config.Settings
}

// New creates the gateway. Either model may be nil when the matching
// credential is absent; the engine then routes those features straight to
// their deterministic path.
func New(log zerolog.Logger, engine *policy.Engine, chat provider.ConversationalModel, completer provider.CompletionModel, settings *config.Settings) *Gateway {
	if settings == nil {
		settings = &config.Settings{}
		settings.ApplyDefaults()
	}
	return &Gateway{
		log:       log,
		engine:    engine,
		chat:      chat,
		completer: completer,
		settings:  settings,
	}
}
