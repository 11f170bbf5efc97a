package pattern

import (
	"strings"

	"github.com/kanon0111/sdlg-edu/internal/model"
	"github.com/kanon0111/sdlg-edu/internal/pools"
)

// Pattern identifiers accepted in recipe files.
const (
	IDPerfectVsPast = "contrast_present_perfect_vs_past"
	IDArticle       = "choose_correct_article"
	IDGeneric       = "generic_sentence"
)

// Kind is the closed set of builders. Anything unrecognized resolves to
// KindFallback.
type Kind int

const (
	KindFallback Kind = iota
	KindPerfectVsPast
	KindArticle
)

func (k Kind) String() string {
	switch k {
	case KindPerfectVsPast:
		return IDPerfectVsPast
	case KindArticle:
		return IDArticle
	default:
		return IDGeneric
	}
}

// Kinds lists every builder in a stable order.
func Kinds() []Kind {
	return []Kind{KindPerfectVsPast, KindArticle, KindFallback}
}

func Resolve(id string) Kind {
	switch strings.TrimSpace(id) {
	case IDPerfectVsPast:
		return KindPerfectVsPast
	case IDArticle:
		return KindArticle
	default:
		return KindFallback
	}
}

// Source is the pseudo-random stream consumed by builders. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Candidate is an unvalidated item produced by a builder.
type Candidate struct {
	Question    string
	Answer      string
	Explanation string
	Difficulty  model.Difficulty
	// QuestionAnchors and AnswerAnchors carry the factual content (clauses,
	// verb forms, the article answer) and must appear verbatim after
	// paraphrasing.
	QuestionAnchors []string
	AnswerAnchors   []string
}

// Build runs the builder for k. Every builder consumes a fixed number of draws
// from src for a given pool set.
func Build(k Kind, src Source, p *pools.Pools, topic string) Candidate {
	switch k {
	case KindPerfectVsPast:
		return buildPerfectVsPast(src, p)
	case KindArticle:
		return buildArticle(src, p)
	default:
		return buildFallback(src, p, topic)
	}
}

var allDifficulties = []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}

func pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// fill replaces {key} placeholders; kv alternates key and value.
func fill(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
