// Package scoring grades a frozen attempt question set against a map of
// submitted answers. Grading is a pure function: no storage access, no
// clock, identical output for identical input.
package scoring

import (
	"math"

	"github.com/certpath/certpath-backend/internal/model"
)

// Result is the outcome of grading one attempt.
type Result struct {
	Score          int  `json:"score"`
	CorrectCount   int  `json:"correct_count"`
	TotalQuestions int  `json:"total_questions"`
	Passed         bool `json:"passed"`
}

// Grade scores the snapshot questions against the answers map (question id
// to selected option label) and compares the rounded percentage with the
// passing threshold. Unanswered questions and answers selecting an option
// that is not flagged correct count as incorrect. An empty question set
// scores 0 and never passes.
func Grade(questions []model.AttemptQuestion, answers map[string]string, passingScore int) Result {
	total := len(questions)
	if total == 0 {
		return Result{Score: 0, CorrectCount: 0, TotalQuestions: 0, Passed: false}
	}

	correct := 0
	for _, q := range questions {
		selected, ok := answers[q.ID.String()]
		if !ok || selected == "" {
			continue
		}
		if isCorrectSelection(q.Options, selected) {
			correct++
		}
	}

	score := int(math.Round(float64(correct) / float64(total) * 100))

	return Result{
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: total,
		Passed:         score >= passingScore,
	}
}

// isCorrectSelection reports whether the selected label matches an option
// flagged correct. If the write-time invariant was violated and several
// options carry the flag, any of them counts; if none do, nothing counts.
func isCorrectSelection(options []model.Option, selected string) bool {
	for _, o := range options {
		if o.Label == selected {
			return o.IsCorrect
		}
	}
	return false
}
