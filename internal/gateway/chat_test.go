package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatValidation(t *testing.T) {
	chat := &fakeChat{reply: "hi"}
	g := newTestGateway(chat, nil)

	_, err := g.Chat(context.Background(), ChatInput{Message: ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = g.Chat(context.Background(), ChatInput{Message: strings.Repeat("x", 501)})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Validation fails closed: the provider is never called.
	assert.Equal(t, 0, chat.calls)
}

func TestChatMessageAtBoundIsAccepted(t *testing.T) {
	chat := &fakeChat{reply: "sure, happy to help"}
	g := newTestGateway(chat, nil)

	reply, err := g.Chat(context.Background(), ChatInput{Message: strings.Repeat("x", 500)})
	require.NoError(t, err)
	assert.Equal(t, "sure, happy to help", reply)
	assert.Equal(t, 1, chat.calls)
}

func TestChatFallbackWithoutCredential(t *testing.T) {
	g := newTestGateway(nil, nil)

	reply, err := g.Chat(context.Background(), ChatInput{Message: "where is my order?"})
	require.NoError(t, err)
	assert.Contains(t, reply, "support")
}

func TestChatFallbackOnProviderError(t *testing.T) {
	chat := &fakeChat{err: assert.AnError}
	g := newTestGateway(chat, nil)

	reply, err := g.Chat(context.Background(), ChatInput{Message: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, g.settings.Chat.FallbackReply, reply)
	assert.Equal(t, 1, chat.calls)
}

func TestChatEmptyReplyTriggersFallback(t *testing.T) {
	chat := &fakeChat{reply: "   "}
	g := newTestGateway(chat, nil)

	reply, err := g.Chat(context.Background(), ChatInput{Message: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, g.settings.Chat.FallbackReply, reply)
}

func TestChatTrimsHistoryAndCatalog(t *testing.T) {
	chat := &fakeChat{reply: "ok"}
	g := newTestGateway(chat, nil)

	history := make([]Turn, 60)
	for i := range history {
		history[i] = Turn{Role: "user", Text: "turn"}
	}

	_, err := g.Chat(context.Background(), ChatInput{Message: "hi assistant", History: history})
	require.NoError(t, err)
	assert.Equal(t, 1, chat.calls)
}
