package gateway

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shopassist/internal/catalog"
	"shopassist/internal/policy"
)

// ChatInput is the caller-supplied input to the chat operation.
type ChatInput struct {
	Message string
	History []Turn
	Catalog []catalog.Digest
}

// Chat answers a shopper message with catalog context. The reply is plain
// text; no further truncation is imposed here.
func (g *Gateway) Chat(ctx context.Context, in ChatInput) (string, error) {
	msgLen := utf8.RuneCountInString(in.Message)
	if msgLen == 0 {
		return "", &ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if msgLen > g.settings.Chat.MaxMessageLen {
		return "", &ValidationError{
			Field:  "message",
			Reason: fmt.Sprintf("must be at most %d characters", g.settings.Chat.MaxMessageLen),
		}
	}

	history := in.History
	if max := g.settings.Chat.MaxHistoryTurns; len(history) > max {
		history = history[len(history)-max:]
	}
	items := in.Catalog
	if max := g.settings.Chat.MaxCatalogItems; len(items) > max {
		items = items[:max]
	}

	return policy.Run(ctx, g.engine, policy.FeatureChat,
		func(callCtx context.Context) (string, error) {
			reply, err := g.chat.Converse(callCtx, chatSystemPrompt(items), history, in.Message)
			if err != nil {
				return "", err
			}
			reply = strings.TrimSpace(reply)
			if reply == "" {
				return "", policy.ErrEmptyResult
			}
			return reply, nil
		},
		func() (string, error) {
			return g.settings.Chat.FallbackReply, nil
		})
}

func chatSystemPrompt(items []catalog.Digest) string {
	var b strings.Builder
	b.WriteString("You are a friendly shopping assistant for an online storefront. ")
	b.WriteString("Answer questions about products, availability and orders concisely. ")
	b.WriteString("Only recommend products from the catalog below and never invent products.\n\n")
	b.WriteString(serializeDigests(items))
	return b.String()
}

// serializeDigests renders the catalog snapshot as compact prompt lines.
func serializeDigests(items []catalog.Digest) string {
	var b strings.Builder
	b.WriteString("<catalog>\n")
	for _, d := range items {
		fmt.Fprintf(&b, "- id=%s | %s | %s | $%.2f | rating %.1f | %s\n",
			d.ID, d.Name, d.Category, d.Price, d.Rating, d.Description)
		if len(d.Features) > 0 {
			fmt.Fprintf(&b, "  features: %s\n", strings.Join(d.Features, ", "))
		}
	}
	b.WriteString("</catalog>")
	return b.String()
}
