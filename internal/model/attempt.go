package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptQuestion is a question frozen into an attempt at assembly time.
// The snapshot embeds full option text and correctness so that later
// display and grading never depend on the mutable question bank.
type AttemptQuestion struct {
	ID         uuid.UUID  `json:"id"`
	Text       string     `json:"text"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Options    []Option   `json:"options"`
}

// CandidateOption is an option as exposed to the candidate (no correctness).
type CandidateOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// CandidateQuestion is an attempt question as exposed to the candidate.
type CandidateQuestion struct {
	ID      uuid.UUID         `json:"id"`
	Text    string            `json:"text"`
	Options []CandidateOption `json:"options"`
}

// ForCandidate strips correctness flags from the snapshot question.
func (q AttemptQuestion) ForCandidate() CandidateQuestion {
	opts := make([]CandidateOption, len(q.Options))
	for i, o := range q.Options {
		opts[i] = CandidateOption{Label: o.Label, Text: o.Text}
	}
	return CandidateQuestion{ID: q.ID, Text: q.Text, Options: opts}
}

// OngoingAttempt is the at-most-one in-progress attempt per candidate.
// Answers maps question id to the selected option label. Version guards
// concurrent updates from multiple tabs (optimistic locking).
type OngoingAttempt struct {
	ID               uuid.UUID         `json:"id"`
	CandidateID      int               `json:"candidate_id"`
	TestID           uuid.UUID         `json:"test_id"`
	Questions        []AttemptQuestion `json:"-"`
	Answers          map[string]string `json:"answers"`
	CurrentIndex     int               `json:"current_index"`
	RemainingSeconds int               `json:"remaining_seconds"`
	Started          bool              `json:"started"`
	Version          int               `json:"version"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Attempt is a finalized, scored attempt kept as history.
type Attempt struct {
	ID             uuid.UUID         `json:"id"`
	CandidateID    int               `json:"candidate_id"`
	TestID         uuid.UUID         `json:"test_id"`
	Questions      []AttemptQuestion `json:"-"`
	Answers        map[string]string `json:"answers"`
	Score          int               `json:"score"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	Passed         bool              `json:"passed"`
	TimedOut       bool              `json:"timed_out"`
	StartedAt      time.Time         `json:"started_at"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}

// AttemptState is the resume payload returned to the candidate on reload.
type AttemptState struct {
	AttemptID        uuid.UUID           `json:"attempt_id"`
	TestID           uuid.UUID           `json:"test_id"`
	Questions        []CandidateQuestion `json:"questions"`
	Answers          map[string]string   `json:"answers"`
	CurrentIndex     int                 `json:"current_index"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	Started          bool                `json:"started"`
	Version          int                 `json:"version"`
}

// UpdateAttemptRequest carries a partial update of the ongoing attempt.
// Absent fields keep their stored values.
type UpdateAttemptRequest struct {
	Answers          map[string]string `json:"answers" binding:"omitempty"`
	CurrentIndex     *int              `json:"current_index" binding:"omitempty,min=0"`
	RemainingSeconds *int              `json:"remaining_seconds" binding:"omitempty,min=0"`
	Started          *bool             `json:"started" binding:"omitempty"`
	Version          int               `json:"version" binding:"min=0"`
}

// StartAttemptRequest is the payload for starting a new attempt.
type StartAttemptRequest struct {
	TestID uuid.UUID `json:"test_id" binding:"required"`
}

// SubmitAttemptRequest is the payload for submitting the ongoing attempt.
// TimedOut marks an auto-submission triggered by the client countdown.
type SubmitAttemptRequest struct {
	TimedOut bool `json:"timed_out"`
}
