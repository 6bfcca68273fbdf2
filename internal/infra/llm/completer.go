package llm

import (
	"context"

	"github.com/zwinglabs/support-chat/internal/infra/llm/chatgpt"
)

// Completer binds a chat completion client to a fixed model.
type Completer struct {
	client *chatgpt.Client
	model  string
}

// NewCompleter constructs the adapter.
func NewCompleter(client *chatgpt.Client, model string) *Completer {
	return &Completer{client: client, model: model}
}

// Complete runs a single-turn completion with the configured model.
func (c *Completer) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	return c.client.CompleteWith(ctx, c.model, system, user, temperature)
}
