package faqstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

func TestMemoryStoreSkipsDuplicateQuestions(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Insert(context.Background(), []faq.Record{
		{Question: "What is Zwing?", Answer: "A"},
		{Question: "How to login?", Answer: "B"},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, int64(1), first[0].ID)

	second, err := store.Insert(context.Background(), []faq.Record{
		{Question: "  what is zwing? ", Answer: "A again"},
		{Question: "Is there an app?", Answer: "C"},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "Is there an app?", second[0].Question)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Insertion order is preserved.
	require.Equal(t, "What is Zwing?", all[0].Question)
	require.Equal(t, "Is there an app?", all[2].Question)
}
