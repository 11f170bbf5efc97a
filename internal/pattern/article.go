package pattern

import (
	"github.com/kanon0111/sdlg-edu/internal/model"
	"github.com/kanon0111/sdlg-edu/internal/pools"
)

var articleDifficulties = []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium}

// ArticleAnswer renders the answer line for an article bound to a sentence
// entry.
func ArticleAnswer(article string) string {
	if article == pools.ArticleNone {
		return "Answer: (no article)"
	}
	return "Answer: " + article
}

// buildArticle picks a sentence entry and reports the article stored with
// it. The answer is never derived from the noun. The friend slot is a second
// name distinct from the first.
func buildArticle(src Source, p *pools.Pools) Candidate {
	s, a := p.Shared, p.Article

	entry := pick(src, a.Sentences)
	i := src.IntN(len(s.Names))
	name := s.Names[i]
	friend := s.Names[(i+1+src.IntN(len(s.Names)-1))%len(s.Names)]
	place := pick(src, s.Places)
	instruction := pick(src, a.Instructions)
	punct := pick(src, s.Punctuation)
	explanation := pick(src, a.Explanations[entry.Answer])
	difficulty := pick(src, articleDifficulties)

	sentence := fill(entry.Text, "name", name, "friend", friend, "place", place)
	answer := ArticleAnswer(entry.Answer)

	return Candidate{
		Question:        fill(instruction, "sentence", sentence, "punct", punct),
		Answer:          answer,
		Explanation:     explanation,
		Difficulty:      difficulty,
		QuestionAnchors: []string{sentence},
		AnswerAnchors:   []string{answer},
	}
}
