package gateway

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeValidation(t *testing.T) {
	chat := &fakeChat{reply: "nice product"}
	g := newTestGateway(chat, nil)

	_, err := g.Describe(context.Background(), DescribeInput{Name: "  "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, chat.calls)
}

func TestDescribeFallbackTemplate(t *testing.T) {
	g := newTestGateway(nil, nil)

	out, err := g.Describe(context.Background(), DescribeInput{
		Name:     "Drift ANC Headphones",
		Category: "Audio",
		Price:    249,
		Features: []string{"Active noise cancelling", "40-hour battery"},
	})
	require.NoError(t, err)
	assert.False(t, out.Truncated)
	assert.Contains(t, out.Body, "Drift ANC Headphones")
	assert.Contains(t, out.Body, "Audio")
	assert.Contains(t, out.Body, "Active noise cancelling")
	assert.Contains(t, out.Body, "$249.00")
}

func TestDescribeDefaultsCategoryAndPrice(t *testing.T) {
	g := newTestGateway(nil, nil)

	out, err := g.Describe(context.Background(), DescribeInput{Name: "Mystery Box", Price: -5})
	require.NoError(t, err)
	assert.Contains(t, out.Body, "General")
	assert.Contains(t, out.Body, "$0.00")
}

func TestDescribeTruncatesOverlongOutput(t *testing.T) {
	chat := &fakeChat{reply: strings.Repeat("a", 6000)}
	g := newTestGateway(chat, nil)

	out, err := g.Describe(context.Background(), DescribeInput{Name: "Yoga Mat"})
	require.NoError(t, err)
	assert.True(t, out.Truncated)
	assert.Equal(t, 5000, utf8.RuneCountInString(out.Body))
	assert.True(t, strings.HasSuffix(out.Body, "..."))
}

func TestDescribeAtLimitIsNotTruncated(t *testing.T) {
	chat := &fakeChat{reply: strings.Repeat("a", 5000)}
	g := newTestGateway(chat, nil)

	out, err := g.Describe(context.Background(), DescribeInput{Name: "Yoga Mat"})
	require.NoError(t, err)
	assert.False(t, out.Truncated)
	assert.Equal(t, 5000, utf8.RuneCountInString(out.Body))
}

func TestDescribeEmptyGenerationUsesTemplate(t *testing.T) {
	chat := &fakeChat{reply: "  \n "}
	g := newTestGateway(chat, nil)

	out, err := g.Describe(context.Background(), DescribeInput{Name: "Foam Roller", Category: "Fitness"})
	require.NoError(t, err)
	assert.Contains(t, out.Body, "Foam Roller")
	assert.Contains(t, out.Body, "Fitness")
	assert.Equal(t, 1, chat.calls)
}
