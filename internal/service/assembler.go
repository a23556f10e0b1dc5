package service

import (
	"math/rand"

	"github.com/certpath/certpath-backend/internal/model"
)

// AssembleQuestions picks count questions from the active pool and freezes
// them into attempt snapshots. When randomize is set, both the selection and
// the final ordering are shuffled; otherwise the pool's stored order is kept
// and the first count questions are taken.
func AssembleQuestions(pool []model.Question, count int, randomize bool, rng *rand.Rand) []model.AttemptQuestion {
	if count > len(pool) {
		count = len(pool)
	}

	picked := make([]model.Question, len(pool))
	copy(picked, pool)

	if randomize {
		rng.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
	}
	picked = picked[:count]

	snapshot := make([]model.AttemptQuestion, len(picked))
	for i, q := range picked {
		snapshot[i] = freezeQuestion(q)
	}
	return snapshot
}

// freezeQuestion copies a bank question into an attempt snapshot. The copy
// keeps correctness flags so scoring works even if the bank changes later.
func freezeQuestion(q model.Question) model.AttemptQuestion {
	options := make([]model.Option, len(q.Options))
	copy(options, q.Options)

	return model.AttemptQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Options:    options,
	}
}
