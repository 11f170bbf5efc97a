package model

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Source is the provenance tag written on every generated item.
const Source = "synthetic/local"

// IDPrefix is prepended to the zero-padded item counter.
const IDPrefix = "GRAM-"

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GeneratedItem is one accepted question/answer record. Field order is the
// JSONL column order.
type GeneratedItem struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Pattern       string     `json:"pattern"`
	QuestionEN    string     `json:"question_en"`
	AnswerEN      string     `json:"answer_en"`
	ExplanationJA string     `json:"explanation_ja"`
	Difficulty    Difficulty `json:"difficulty"`
	Source        string     `json:"source"`
}

// ItemID formats the n-th accepted item id, e.g. GRAM-000001.
func ItemID(n int) string {
	return fmt.Sprintf("%s%06d", IDPrefix, n)
}
