package paraphrase_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/kanon0111/sdlg-edu/internal/paraphrase"
)

type countingSource struct {
	r     *rand.Rand
	draws int
}

func newSource(seed uint64) *countingSource {
	return &countingSource{r: rand.New(rand.NewPCG(seed, 1))}
}

func (s *countingSource) IntN(n int) int {
	s.draws++
	return s.r.IntN(n)
}

func (s *countingSource) Float64() float64 {
	s.draws++
	return s.r.Float64()
}

const longQuestion = `Explain the difference between "Emma has taken the report" and "Emma took the report in Tokyo yesterday".`

func TestShortTextUntouched(t *testing.T) {
	src := newSource(1)
	out := paraphrase.New(1, 40).Apply(src, "Answer: an")
	require.Equal(t, "Answer: an", out)
	require.Zero(t, src.draws, "short text consumes no draws")
}

func TestShortTextCountsRunes(t *testing.T) {
	// 13 runes, 39 bytes: below a 20-rune minimum even though the byte
	// length is not.
	text := "現在完了と過去形の違いを説"
	require.Equal(t, 13, utf8.RuneCountInString(text))
	require.Greater(t, len(text), 20)

	src := newSource(1)
	out := paraphrase.New(1, 20).Apply(src, text)
	require.Equal(t, text, out)
	require.Zero(t, src.draws)

	long := strings.Repeat("完", 20)
	src = newSource(1)
	paraphrase.New(1, 20).Apply(src, long)
	require.Positive(t, src.draws, "20 runes reach the minimum")
}

func TestFixedDrawShape(t *testing.T) {
	a, b := newSource(1), newSource(2)
	paraphrase.Default().Apply(a, longQuestion)
	paraphrase.Default().Apply(b, "A long sentence with no framing phrase at all, nothing to rewrite here.")
	require.Equal(t, a.draws, b.draws)
	require.Positive(t, a.draws)
	require.Zero(t, a.draws%2)
}

func TestAlwaysFire(t *testing.T) {
	out := paraphrase.New(1, 0).Apply(newSource(3), longQuestion)
	require.False(t, strings.HasPrefix(out, "Explain the difference between"), out)
	require.Contains(t, out, `"Emma has taken the report"`)
	require.Contains(t, out, `"Emma took the report in Tokyo yesterday"`)
}

func TestNeverFire(t *testing.T) {
	src := newSource(3)
	out := paraphrase.New(0, 0).Apply(src, longQuestion)
	require.Equal(t, longQuestion, out)
	require.Positive(t, src.draws, "rolls are consumed even when no rule fires")
}

func TestKeepFragmentsSurvive(t *testing.T) {
	text := "For example, the topic simple past appears here, and simple past again in a longer line."
	for seed := uint64(0); seed < 20; seed++ {
		out := paraphrase.New(1, 0).Apply(newSource(seed), text, "topic simple past")
		require.Contains(t, out, "topic simple past")
		require.NotContains(t, out, "For example,")
		require.NotContains(t, out, "and simple past again", "unprotected match is rewritten")
	}
}

func TestDeterministic(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		a := paraphrase.Default().Apply(newSource(seed), longQuestion)
		b := paraphrase.Default().Apply(newSource(seed), longQuestion)
		require.Equal(t, a, b)
	}
}
