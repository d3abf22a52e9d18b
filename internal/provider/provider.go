package provider

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
)

// Roles for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a caller-owned conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ErrNoCandidates is returned when a provider reply decodes but carries no
// usable text under any known envelope shape.
var ErrNoCandidates = errors.New("provider reply contains no text candidates")

// ConversationalModel is a multi-turn chat provider. Adapters only marshal
// the request, attach credentials and extract the first textual candidate.
type ConversationalModel interface {
	Converse(ctx context.Context, system string, history []Turn, message string) (string, error)
}

// CompletionModel is a single-shot completion provider used for ranking,
// classification and generation calls.
type CompletionModel interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}
