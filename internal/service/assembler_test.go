package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/model"
)

func bankQuestion(n int) model.Question {
	return model.Question{
		ID:         uuid.New(),
		Text:       fmt.Sprintf("question %d", n),
		Difficulty: model.DifficultyMedium,
		Active:     true,
		Options: []model.Option{
			{Label: "A", Text: "first", IsCorrect: true},
			{Label: "B", Text: "second"},
		},
	}
}

func makeBank(n int) []model.Question {
	bank := make([]model.Question, n)
	for i := range bank {
		bank[i] = bankQuestion(i)
	}
	return bank
}

func TestAssembleQuestionsCount(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		count    int
		want     int
	}{
		{"exact", 10, 10, 10},
		{"subset", 10, 4, 4},
		{"pool smaller than count", 3, 10, 3},
		{"empty pool", 0, 5, 0},
	}

	rng := rand.New(rand.NewSource(1))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssembleQuestions(makeBank(tt.poolSize), tt.count, true, rng)
			if len(got) != tt.want {
				t.Errorf("got %d questions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAssembleQuestionsNoDuplicates(t *testing.T) {
	bank := makeBank(20)
	rng := rand.New(rand.NewSource(42))

	got := AssembleQuestions(bank, 15, true, rng)

	seen := make(map[uuid.UUID]bool, len(got))
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %s selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestAssembleQuestionsOrderedWhenNotRandomized(t *testing.T) {
	bank := makeBank(5)
	rng := rand.New(rand.NewSource(7))

	got := AssembleQuestions(bank, 3, false, rng)

	for i := range got {
		if got[i].ID != bank[i].ID {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, bank[i].ID)
		}
	}
}

func TestAssembleQuestionsDoesNotMutatePool(t *testing.T) {
	bank := makeBank(10)
	first := bank[0].ID
	rng := rand.New(rand.NewSource(3))

	AssembleQuestions(bank, 10, true, rng)

	if bank[0].ID != first {
		t.Error("assembling reordered the caller's slice")
	}
}

func TestFreezeQuestionCopiesOptions(t *testing.T) {
	q := bankQuestion(0)
	frozen := freezeQuestion(q)

	frozen.Options[0].Text = "mutated"
	if q.Options[0].Text == "mutated" {
		t.Error("snapshot shares option storage with the bank question")
	}
}
