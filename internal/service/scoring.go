package service

import (
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/repository"
)

// Answer is one submitted answer. A single selected option is a one-element
// OptionIDs slice.
type Answer struct {
	QuestionID uint
	OptionIDs  []uint
}

type keyEntry struct {
	Type    model.QuestionType
	Correct map[uint]struct{}
}

// AnswerKey maps every scoreable question of a quiz to its type and the set
// of its correct option ids.
type AnswerKey map[uint]keyEntry

func BuildAnswerKey(rows []repository.AnswerKeyRow) AnswerKey {
	key := make(AnswerKey)
	for _, row := range rows {
		entry, ok := key[row.QuestionID]
		if !ok {
			entry = keyEntry{Type: row.QuestionType, Correct: make(map[uint]struct{})}
			key[row.QuestionID] = entry
		}
		if row.IsCorrect {
			entry.Correct[row.OptionID] = struct{}{}
		}
	}
	return key
}

// Judge reports whether a is fully correct. Answers to questions outside the
// key are never correct.
func (k AnswerKey) Judge(a Answer) bool {
	entry, ok := k[a.QuestionID]
	if !ok {
		return false
	}
	if entry.Type == model.MultipleChoice {
		selected := make(map[uint]struct{}, len(a.OptionIDs))
		for _, id := range a.OptionIDs {
			selected[id] = struct{}{}
		}
		if len(selected) != len(entry.Correct) {
			return false
		}
		for id := range selected {
			if _, ok := entry.Correct[id]; !ok {
				return false
			}
		}
		return true
	}
	if len(a.OptionIDs) != 1 {
		return false
	}
	_, ok = entry.Correct[a.OptionIDs[0]]
	return ok
}

// Score counts correct answers. Only the first answer given for a question id
// is judged; repeats are ignored.
func (k AnswerKey) Score(answers []Answer) int {
	score := 0
	seen := make(map[uint]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		if k.Judge(a) {
			score++
		}
	}
	return score
}

// Percentage is score/total*100 rounded half up. A quiz with nothing to score
// yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}
