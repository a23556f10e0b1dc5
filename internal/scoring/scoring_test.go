package scoring

import (
	"testing"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/google/uuid"
)

func mcq(correctLabel string) model.AttemptQuestion {
	return model.AttemptQuestion{
		ID:   uuid.New(),
		Text: "q",
		Options: []model.Option{
			{Label: "A", Text: "a", IsCorrect: correctLabel == "A"},
			{Label: "B", Text: "b", IsCorrect: correctLabel == "B"},
			{Label: "C", Text: "c", IsCorrect: correctLabel == "C"},
			{Label: "D", Text: "d", IsCorrect: correctLabel == "D"},
		},
	}
}

func TestGrade(t *testing.T) {
	q1 := mcq("B")
	q2 := mcq("D")

	tests := []struct {
		name         string
		questions    []model.AttemptQuestion
		answers      map[string]string
		passingScore int
		wantScore    int
		wantCorrect  int
		wantPassed   bool
	}{
		{
			name:         "all correct",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{q1.ID.String(): "B", q2.ID.String(): "D"},
			passingScore: 70,
			wantScore:    100, wantCorrect: 2, wantPassed: true,
		},
		{
			name:         "one correct one blank",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{q1.ID.String(): "B"},
			passingScore: 70,
			wantScore:    50, wantCorrect: 1, wantPassed: false,
		},
		{
			name:         "wrong selection counts as incorrect",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{q1.ID.String(): "A", q2.ID.String(): "D"},
			passingScore: 70,
			wantScore:    50, wantCorrect: 1, wantPassed: false,
		},
		{
			name:         "unknown label counts as incorrect",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{q1.ID.String(): "Z", q2.ID.String(): "D"},
			passingScore: 70,
			wantScore:    50, wantCorrect: 1, wantPassed: false,
		},
		{
			name:         "empty answers",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{},
			passingScore: 70,
			wantScore:    0, wantCorrect: 0, wantPassed: false,
		},
		{
			name:         "boundary score equals threshold passes",
			questions:    []model.AttemptQuestion{q1, q2},
			answers:      map[string]string{q1.ID.String(): "B"},
			passingScore: 50,
			wantScore:    50, wantCorrect: 1, wantPassed: true,
		},
		{
			name:         "rounding one of three",
			questions:    []model.AttemptQuestion{q1, q2, mcq("A")},
			answers:      map[string]string{q1.ID.String(): "B"},
			passingScore: 70,
			wantScore:    33, wantCorrect: 1, wantPassed: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(tc.questions, tc.answers, tc.passingScore)
			if got.Score != tc.wantScore {
				t.Fatalf("expected score=%d, got=%d", tc.wantScore, got.Score)
			}
			if got.CorrectCount != tc.wantCorrect {
				t.Fatalf("expected correct=%d, got=%d", tc.wantCorrect, got.CorrectCount)
			}
			if got.TotalQuestions != len(tc.questions) {
				t.Fatalf("expected total=%d, got=%d", len(tc.questions), got.TotalQuestions)
			}
			if got.Passed != tc.wantPassed {
				t.Fatalf("expected passed=%v, got=%v", tc.wantPassed, got.Passed)
			}
		})
	}
}

func TestGradeZeroQuestions(t *testing.T) {
	got := Grade(nil, map[string]string{}, 70)
	if got.Score != 0 || got.Passed {
		t.Fatalf("expected score=0 passed=false, got=%+v", got)
	}
}

func TestGradeDeterminism(t *testing.T) {
	q1 := mcq("A")
	q2 := mcq("C")
	answers := map[string]string{q1.ID.String(): "A", q2.ID.String(): "B"}

	first := Grade([]model.AttemptQuestion{q1, q2}, answers, 70)
	for i := 0; i < 10; i++ {
		if got := Grade([]model.AttemptQuestion{q1, q2}, answers, 70); got != first {
			t.Fatalf("grading not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestGradeToleratesViolatedInvariant(t *testing.T) {
	// Two options flagged correct: selecting either counts.
	q := model.AttemptQuestion{
		ID: uuid.New(),
		Options: []model.Option{
			{Label: "A", IsCorrect: true},
			{Label: "B", IsCorrect: true},
			{Label: "C"},
		},
	}

	for _, label := range []string{"A", "B"} {
		got := Grade([]model.AttemptQuestion{q}, map[string]string{q.ID.String(): label}, 100)
		if got.CorrectCount != 1 {
			t.Fatalf("label %s: expected correct=1, got=%d", label, got.CorrectCount)
		}
	}

	// No options flagged correct: nothing can score.
	q.Options = []model.Option{{Label: "A"}, {Label: "B"}}
	got := Grade([]model.AttemptQuestion{q}, map[string]string{q.ID.String(): "A"}, 100)
	if got.CorrectCount != 0 {
		t.Fatalf("expected correct=0, got=%d", got.CorrectCount)
	}
}
