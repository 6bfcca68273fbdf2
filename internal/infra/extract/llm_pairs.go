package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

const extractionPrompt = `Extract FAQs from this text in strictly valid JSON format like this: [{"question": "...", "answer": "..."}]. Respond with the JSON array only.`

type completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// LLMPairExtractor asks a chat model to distill question/answer pairs from
// free text.
type LLMPairExtractor struct {
	client    completer
	maxTokens int
	encoding  *tiktoken.Tiktoken
	logger    *slog.Logger
}

// NewLLMPairExtractor constructs the extractor. maxTokens bounds the amount
// of document text forwarded to the model; zero disables truncation.
func NewLLMPairExtractor(client completer, maxTokens int, logger *slog.Logger) *LLMPairExtractor {
	var encoding *tiktoken.Tiktoken
	if maxTokens > 0 {
		// Token counts only bound the prompt size, so a load failure just
		// means we skip truncation.
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warn("tokenizer unavailable, prompt truncation disabled", "error", err)
		} else {
			encoding = enc
		}
	}
	return &LLMPairExtractor{
		client:    client,
		maxTokens: maxTokens,
		encoding:  encoding,
		logger:    logger.With("component", "pair_extractor"),
	}
}

// ExtractPairs sends the text to the model and parses the returned JSON array.
func (e *LLMPairExtractor) ExtractPairs(ctx context.Context, text string) ([]faq.Pair, error) {
	text = e.truncate(text)
	raw, err := e.client.Complete(ctx, extractionPrompt, text, 0)
	if err != nil {
		return nil, apperrors.Wrap("llm_error", "extract faq pairs", err)
	}

	var pairs []faq.Pair
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &pairs); err != nil {
		return nil, apperrors.Wrap("extraction_error", "model returned unparseable faq payload", err)
	}
	out := pairs[:0]
	for _, p := range pairs {
		if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.Answer) == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *LLMPairExtractor) truncate(text string) string {
	if e.encoding == nil || e.maxTokens <= 0 {
		return text
	}
	tokens := e.encoding.Encode(text, nil, nil)
	if len(tokens) <= e.maxTokens {
		return text
	}
	e.logger.Warn("document truncated for extraction", "tokens", len(tokens), "limit", e.maxTokens)
	return e.encoding.Decode(tokens[:e.maxTokens])
}

// stripCodeFence unwraps ```json ... ``` blocks some models insist on.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ faq.PairExtractor = (*LLMPairExtractor)(nil)
