package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanon0111/sdlg-edu/internal/dedup"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, []string{"emma", "s", "report", "was", "late"}, dedup.Normalize("Emma's REPORT (2023) was late!"))
	require.Empty(t, dedup.Normalize("123 ... ？"))
}

func TestNGrams(t *testing.T) {
	toks := []string{"a", "b", "c", "d", "e", "f"}
	require.Equal(t, []string{"a b c d e", "b c d e f"}, dedup.NGrams(toks, 5))
	require.Nil(t, dedup.NGrams(toks[:4], 5), "fewer tokens than n yields no grams")
	require.Nil(t, dedup.NGrams(toks, 0))
}

func TestGramSetIsUnique(t *testing.T) {
	// 10 tokens -> 6 windows, "a b c d e" appears twice.
	g := dedup.GramSet("a b c d e", "a b c d e", 5)
	require.Len(t, g, 5)

	require.Empty(t, dedup.GramSet("Answer:", "an", 5))
}

func TestIndexOverlap(t *testing.T) {
	idx := dedup.NewIndex()
	first := dedup.GramSet("Emma has taken the report to Tokyo", "", 5)
	require.Len(t, first, 3)
	require.Zero(t, idx.Overlap(first))

	idx.Add(first)
	require.Equal(t, 3, idx.Len())
	require.Equal(t, 1.0, idx.Overlap(first))

	// shares only "emma has taken the report"
	second := dedup.GramSet("Emma has taken the report home after lunch", "", 5)
	require.Len(t, second, 4)
	require.InDelta(t, 0.25, idx.Overlap(second), 1e-9)

	require.Zero(t, idx.Overlap(nil), "empty gram set never overlaps")

	idx.Add(second)
	require.Equal(t, 6, idx.Len(), "union does not double count")
}
