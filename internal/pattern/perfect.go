package pattern

import (
	"strings"

	"github.com/kanon0111/sdlg-edu/internal/pools"
)

// buildPerfectVsPast contrasts a present perfect clause with a simple past
// clause built from the same subject, verb and object.
func buildPerfectVsPast(src Source, p *pools.Pools) Candidate {
	s, pp := p.Shared, p.PerfectPast

	name := pick(src, s.Names)
	verb := pick(src, pp.Verbs)
	obj := pick(src, s.Objects)
	place := pick(src, s.Places)
	when := pick(src, s.Times)
	adverb := pick(src, pp.Adverbs)
	contract := src.Float64() < 0.3
	withAdverb := src.Float64() < 0.5
	swap := src.Float64() < 0.5
	num := pick(src, s.Numbers)
	question := pick(src, pp.Questions)
	answer := pick(src, pp.Answers)
	explanation := pick(src, pp.Explanations)
	difficulty := pick(src, allDifficulties)

	participle := verb.Participle
	if withAdverb {
		participle = adverb + " " + participle
	}
	perfectVerb := "has " + participle
	if contract {
		perfectVerb = name + "'s " + participle
	}

	var perfectClause string
	if contract {
		perfectClause = perfectVerb + " the " + obj
	} else {
		perfectClause = name + " " + perfectVerb + " the " + obj
	}
	pastClause := strings.Join([]string{name, verb.Past, "the", obj, "in", place, when}, " ")

	first, second := perfectClause, pastClause
	if swap {
		first, second = second, first
	}

	return Candidate{
		Question: fill(question,
			"first", first,
			"second", second,
			"place", place,
			"num", num,
		),
		Answer: fill(answer,
			"pp_verb", perfectVerb,
			"past_verb", verb.Past,
			"name", name,
			"obj", obj,
			"place", place,
			"time", when,
		),
		Explanation:     explanation,
		Difficulty:      difficulty,
		QuestionAnchors: []string{perfectClause, pastClause},
		AnswerAnchors:   []string{perfectVerb, verb.Past},
	}
}
