package model

import "testing"

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		wantErr error
	}{
		{
			name: "single correct option",
			options: []Option{
				{Label: "A", Text: "first"},
				{Label: "B", Text: "second", IsCorrect: true},
			},
			wantErr: nil,
		},
		{
			name: "no correct option",
			options: []Option{
				{Label: "A", Text: "first"},
				{Label: "B", Text: "second"},
			},
			wantErr: ErrNoCorrectOption,
		},
		{
			name: "multiple correct options",
			options: []Option{
				{Label: "A", Text: "first", IsCorrect: true},
				{Label: "B", Text: "second", IsCorrect: true},
			},
			wantErr: ErrMultipleCorrectOptions,
		},
		{
			name: "duplicate labels",
			options: []Option{
				{Label: "A", Text: "first", IsCorrect: true},
				{Label: "A", Text: "second"},
			},
			wantErr: ErrDuplicateOptionLabel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateOptions(tc.options); err != tc.wantErr {
				t.Fatalf("expected err=%v, got=%v", tc.wantErr, err)
			}
		})
	}
}

func TestForCandidateStripsCorrectness(t *testing.T) {
	q := AttemptQuestion{
		Text: "pick one",
		Options: []Option{
			{Label: "A", Text: "yes", IsCorrect: true},
			{Label: "B", Text: "no"},
		},
	}

	view := q.ForCandidate()
	if len(view.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(view.Options))
	}
	for _, o := range view.Options {
		if o.Label == "" || o.Text == "" {
			t.Fatalf("option fields missing: %+v", o)
		}
	}
}
