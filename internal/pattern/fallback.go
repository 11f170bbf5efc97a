package pattern

import (
	"strconv"

	"github.com/kanon0111/sdlg-edu/internal/pools"
)

// buildFallback produces an instruction asking for one sentence about topic
// and a varied example sentence that uses it. Question and answer share the
// same name, place and time.
func buildFallback(src Source, p *pools.Pools, topic string) Candidate {
	s, f := p.Shared, p.Fallback

	question := pick(src, f.Questions)
	words := 8 + src.IntN(11)
	schema := pick(src, f.Schemas)
	linker := pick(src, s.Linkers)
	name := pick(src, s.Names)
	place := pick(src, s.Places)
	obj := pick(src, s.Objects)
	adj := pick(src, s.Adjectives)
	adv1 := pick(src, s.Adverbs)
	adv2 := pick(src, s.Adverbs)
	when := pick(src, s.Times)
	num := pick(src, s.Numbers)
	punct := pick(src, s.Punctuation)
	verb := pick(src, f.Verbs)
	conn := pick(src, f.Connectors)
	hintRoll := src.Float64()
	negRoll := src.Float64()
	modal := pick(src, s.Modals)
	explanation := pick(src, f.Explanations)
	difficulty := pick(src, allDifficulties)

	answer := fill(schema,
		"linker", linker,
		"name", name,
		"adv1", adv1,
		"adv2", adv2,
		"verb_base", verb.Base,
		"verb", verb.Past,
		"topic", topic,
		"conn", conn,
		"obj", obj,
		"adj", adj,
		"place", place,
		"time", when,
		"num", num,
		"punct", punct,
	)
	if hintRoll < 0.35 {
		hint := modal
		if negRoll < 0.4 {
			hint = "not " + modal
		}
		answer += " (hint: " + hint + ")"
	}

	q := fill(question,
		"topic", topic,
		"n", strconv.Itoa(words),
		"name", name,
		"place", place,
		"time", when,
		"obj", obj,
	)

	return Candidate{
		Question:        q,
		Answer:          answer,
		Explanation:     explanation,
		Difficulty:      difficulty,
		QuestionAnchors: []string{topic},
		AnswerAnchors:   []string{topic},
	}
}
