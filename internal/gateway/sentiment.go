package gateway

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"shopassist/internal/policy"
)

const minReviewRunes = 10

// Sentiment classifies a product review as positive, negative or neutral.
func (g *Gateway) Sentiment(ctx context.Context, reviewText string) (SentimentResult, error) {
	if utf8.RuneCountInString(reviewText) < minReviewRunes {
		return SentimentResult{}, &ValidationError{
			Field:  "reviewText",
			Reason: fmt.Sprintf("must be at least %d characters", minReviewRunes),
		}
	}

	return policy.Run(ctx, g.engine, policy.FeatureSentiment,
		func(callCtx context.Context) (SentimentResult, error) {
			messages, err := sentimentMessages(callCtx, reviewText)
			if err != nil {
				return SentimentResult{}, err
			}
			raw, err := g.completer.Complete(callCtx, messages)
			if err != nil {
				return SentimentResult{}, err
			}
			return parseSentiment(raw)
		},
		func() (SentimentResult, error) {
			return g.heuristicSentiment(reviewText), nil
		})
}

// parseSentiment strictly decodes the provider's JSON reply. Models sometimes
// wrap JSON in a markdown fence, so the fenced shape is tried second.
func parseSentiment(raw string) (SentimentResult, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return SentimentResult{}, policy.ErrEmptyResult
	}

	var parsed struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := sonic.Unmarshal([]byte(payload), &parsed); err != nil {
		unfenced, ok := stripCodeFence(payload)
		if !ok {
			return SentimentResult{}, fmt.Errorf("%w: %v", policy.ErrParse, err)
		}
		if err := sonic.Unmarshal([]byte(unfenced), &parsed); err != nil {
			return SentimentResult{}, fmt.Errorf("%w: %v", policy.ErrParse, err)
		}
	}

	label := strings.ToLower(strings.TrimSpace(parsed.Sentiment))
	switch label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		return SentimentResult{}, fmt.Errorf("%w: unknown sentiment label %q", policy.ErrParse, parsed.Sentiment)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return SentimentResult{Label: label, Confidence: confidence}, nil
}

func stripCodeFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return "", false
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s), true
}

// heuristicSentiment counts keyword hits from the configured word sets.
// Confidence is |positive-negative| / max(positive+negative, 1), so a review
// matching neither set is neutral with confidence 0.
func (g *Gateway) heuristicSentiment(reviewText string) SentimentResult {
	text := strings.ToLower(reviewText)

	positives := 0
	for _, word := range g.settings.Sentiment.PositiveWords {
		if strings.Contains(text, strings.ToLower(word)) {
			positives++
		}
	}
	negatives := 0
	for _, word := range g.settings.Sentiment.NegativeWords {
		if strings.Contains(text, strings.ToLower(word)) {
			negatives++
		}
	}

	label := SentimentNeutral
	switch {
	case positives > negatives:
		label = SentimentPositive
	case negatives > positives:
		label = SentimentNegative
	}

	total := positives + negatives
	if total < 1 {
		total = 1
	}
	diff := positives - negatives
	if diff < 0 {
		diff = -diff
	}
	return SentimentResult{Label: label, Confidence: float64(diff) / float64(total)}
}
