package dedup

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultN is the gram width used for dedup and for the quality report.
const DefaultN = 5

var wordRE = regexp.MustCompile(`[A-Za-z]+`)

// Normalize splits text into lower-cased alphabetic tokens. Digits and
// punctuation separate tokens, so "Emma's" yields "emma" and "s".
func Normalize(text string) []string {
	toks := wordRE.FindAllString(text, -1)
	for i, t := range toks {
		toks[i] = strings.ToLower(t)
	}
	return toks
}

// NGrams returns every window of n contiguous tokens joined by single
// spaces. Fewer than n tokens yields nil.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// Grams is the unique gram set of one candidate, keyed by digest.
type Grams []uint64

// GramSet computes the unique grams of question + " " + answer.
func GramSet(question, answer string, n int) Grams {
	grams := NGrams(Normalize(question+" "+answer), n)
	if len(grams) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(grams))
	out := make(Grams, 0, len(grams))
	for _, g := range grams {
		h := xxhash.Sum64String(g)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Index is the run-wide set of accepted grams. It only grows.
type Index struct {
	grams map[uint64]struct{}
}

func NewIndex() *Index {
	return &Index{grams: make(map[uint64]struct{})}
}

// Overlap is the fraction of g already present in the index; 0 for an empty
// set.
func (x *Index) Overlap(g Grams) float64 {
	if len(g) == 0 {
		return 0
	}
	hits := 0
	for _, h := range g {
		if _, ok := x.grams[h]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(g))
}

func (x *Index) Add(g Grams) {
	for _, h := range g {
		x.grams[h] = struct{}{}
	}
}

func (x *Index) Len() int {
	return len(x.grams)
}
