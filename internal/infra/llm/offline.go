package llm

import "context"

// OfflineCompleter returns a lightweight canned reply without external calls.
// It keeps the service bootable when no API key is configured; pair
// extraction degrades to zero candidates and query matching to the fallback.
type OfflineCompleter struct{}

// Complete echoes the prompt.
func (OfflineCompleter) Complete(_ context.Context, _, user string, _ float32) (string, error) {
	return "Answer: " + user, nil
}
