// Package llm provides the completion client used by the batch processor.
// The client is stateless from the caller's perspective: one prompt in, one
// reply plus its token cost out.
package llm

import "context"

// Completion is a single LLM reply with its billed token count.
type Completion struct {
	Text       string
	TokensUsed int
}

// Client issues completions against a rate-limited, per-token-billed API.
type Client interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}
