package embedder

import (
	"context"
	"fmt"
	"strings"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
	"github.com/zwinglabs/support-chat/internal/infra/llm/chatgpt"
)

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API.
type ChatGPTEmbedder struct {
	client *chatgpt.Client
	model  string
}

// NewChatGPTEmbedder constructs an embedder backed by the LLM client.
func NewChatGPTEmbedder(client *chatgpt.Client, model string) *ChatGPTEmbedder {
	return &ChatGPTEmbedder{client: client, model: strings.TrimSpace(model)}
}

// Embed requests an embedding for a single text.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	return vec, nil
}

var _ faq.Embedder = (*ChatGPTEmbedder)(nil)
