package paraphrase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultProbability = 0.45
	DefaultMinLength   = 40
)

type Source interface {
	IntN(n int) int
	Float64() float64
}

type rule struct {
	re      *regexp.Regexp
	choices []string
}

// Only connective and framing phrases are rewritten. Verb forms, clauses and
// article answers never match these patterns.
var rules = []rule{
	{regexp.MustCompile(`\bExplain the difference between\b`), []string{"Clarify the difference between", "Spell out the contrast between", "Describe the distinction between"}},
	{regexp.MustCompile(`\bHow does\b`), []string{"In what way does", "How exactly does"}},
	{regexp.MustCompile(`\bdiffer from\b`), []string{"contrast with", "stand apart from"}},
	{regexp.MustCompile(`\bWhat changes between\b`), []string{"What shifts between", "What is different between"}},
	{regexp.MustCompile(`\bCompare\b`), []string{"Contrast", "Weigh"}},
	{regexp.MustCompile(`\bnot the same as\b`), []string{"different from", "unlike"}},
	{regexp.MustCompile(`\bChoose the article\b`), []string{"Select the article", "Pick an article"}},
	{regexp.MustCompile(`\bFill the blank\b`), []string{"Fill in the blank", "Complete the blank"}},
	{regexp.MustCompile(`\bWhich article fits\?`), []string{"Which article belongs?", "What article fits?"}},
	{regexp.MustCompile(`\bWrite how\b`), []string{"Show how", "Explain how"}},
	{regexp.MustCompile(`\bCreate a sentence\b`), []string{"Make a sentence", "Build a sentence"}},
	{regexp.MustCompile(`\bFor example,`), []string{"For instance,", "As an example,", "To illustrate,"}},
	{regexp.MustCompile(`\bIn practice,`), []string{"In real use,", "Practically,"}},
	{regexp.MustCompile(`\bTypically,`), []string{"Usually,", "Most often,"}},
	{regexp.MustCompile(`\bsimple past\b`), []string{"past simple", "plain past"}},
	{regexp.MustCompile(`\bthe present\b`), []string{"now", "the present moment"}},
	{regexp.MustCompile(`\bstill has\b`), []string{"still holds", "keeps"}},
}

// Engine rewrites framing phrases to reduce exact-phrase repetition across
// items built from the same template.
type Engine struct {
	probability float64
	minLength   int
}

func New(probability float64, minLength int) *Engine {
	return &Engine{probability: probability, minLength: minLength}
}

func Default() *Engine {
	return New(DefaultProbability, DefaultMinLength)
}

// Apply returns text with each rule fired independently with the engine's
// probability. Text shorter than the minimum length, counted in runes, is
// returned untouched and consumes no draws; longer text consumes exactly two
// draws per rule. Matches overlapping any occurrence of a keep fragment are
// left alone.
func (e *Engine) Apply(src Source, text string, keep ...string) string {
	if utf8.RuneCountInString(text) < e.minLength {
		return text
	}
	for _, r := range rules {
		roll := src.Float64()
		choice := r.choices[src.IntN(len(r.choices))]
		if roll >= e.probability {
			continue
		}
		text = replaceOutside(r.re, text, choice, spans(text, keep))
	}
	return text
}

type span struct{ start, end int }

func spans(text string, keep []string) []span {
	var out []span
	for _, k := range keep {
		if k == "" {
			continue
		}
		for off := 0; ; {
			i := strings.Index(text[off:], k)
			if i < 0 {
				break
			}
			out = append(out, span{off + i, off + i + len(k)})
			off += i + 1
		}
	}
	return out
}

func replaceOutside(re *regexp.Regexp, text, repl string, protected []span) string {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if overlaps(m[0], m[1], protected) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func overlaps(start, end int, protected []span) bool {
	for _, p := range protected {
		if start < p.end && p.start < end {
			return true
		}
	}
	return false
}
