package gateway

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shopassist/internal/policy"
)

// Persistence caps the description column at 5000 characters; anything longer
// is cut and marked.
const (
	maxDescriptionRunes = 5000
	descriptionCutRunes = 4997
	descriptionEllipsis = "..."
	defaultCategory     = "General"
)

// DescribeInput is the input to description generation.
type DescribeInput struct {
	Name     string
	Category string
	Price    float64
	Features []string
}

// Describe generates a marketing description for a product. The body never
// exceeds the persistence limit; over-long provider output is truncated and
// flagged.
func (g *Gateway) Describe(ctx context.Context, in DescribeInput) (GeneratedText, error) {
	if strings.TrimSpace(in.Name) == "" {
		return GeneratedText{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	if in.Price < 0 {
		in.Price = 0
	}

	return policy.Run(ctx, g.engine, policy.FeatureDescribe,
		func(callCtx context.Context) (GeneratedText, error) {
			text, err := g.chat.Converse(callCtx, describeSystemPrompt, nil, describePrompt(in))
			if err != nil {
				return GeneratedText{}, err
			}
			text = strings.TrimSpace(text)
			// An empty generation is substituted with the deterministic
			// template rather than treated as a failure.
			if text == "" {
				text = templateDescription(in)
			}
			return clampDescription(text), nil
		},
		func() (GeneratedText, error) {
			return clampDescription(templateDescription(in)), nil
		})
}

// clampDescription enforces the persistence limit on rune length.
func clampDescription(body string) GeneratedText {
	if utf8.RuneCountInString(body) <= maxDescriptionRunes {
		return GeneratedText{Body: body}
	}
	runes := []rune(body)
	return GeneratedText{
		Body:      string(runes[:descriptionCutRunes]) + descriptionEllipsis,
		Truncated: true,
	}
}

// templateDescription is the deterministic description used when no provider
// is configured or the generation comes back empty.
func templateDescription(in DescribeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a quality addition to our %s range.", in.Name, in.Category)
	if len(in.Features) > 0 {
		fmt.Fprintf(&b, " Key features: %s.", strings.Join(in.Features, ", "))
	}
	fmt.Fprintf(&b, " Available now for $%.2f.", in.Price)
	return b.String()
}

const describeSystemPrompt = "You write concise, engaging product descriptions " +
	"for an online storefront. Plain text only, no markdown, two to four sentences."

func describePrompt(in DescribeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product name: %s\nCategory: %s\nPrice: $%.2f\n", in.Name, in.Category, in.Price)
	if len(in.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(in.Features, ", "))
	}
	b.WriteString("\nWrite the product description.")
	return b.String()
}
