package faq

import "strings"

// Normalize maps question text to its dedup identity: whitespace-trimmed and
// lower-cased. No two stored records may share a normalized question.
func Normalize(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}
