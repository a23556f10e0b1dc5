package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty enumerates question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Option is a single answer choice owned by exactly one question.
type Option struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question represents a multiple-choice question in the bank.
type Question struct {
	ID         uuid.UUID  `json:"id"`
	ModuleID   uuid.UUID  `json:"module_id"`
	Text       string     `json:"text"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Active     bool       `json:"active"`
	Options    []Option   `json:"options"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Question validation errors.
var (
	ErrNoCorrectOption        = errors.New("question has no option flagged correct")
	ErrMultipleCorrectOptions = errors.New("question has more than one option flagged correct")
	ErrDuplicateOptionLabel   = errors.New("question has duplicate option labels")
)

// ValidateOptions enforces the one-correct-option invariant at write time.
// The scoring engine still tolerates violations on historical snapshots.
func ValidateOptions(options []Option) error {
	correct := 0
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, dup := seen[o.Label]; dup {
			return ErrDuplicateOptionLabel
		}
		seen[o.Label] = struct{}{}
		if o.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return ErrNoCorrectOption
	}
	if correct > 1 {
		return ErrMultipleCorrectOptions
	}
	return nil
}

// OptionRequest is a single option in a question create/update payload.
type OptionRequest struct {
	Label     string `json:"label" binding:"required,min=1,max=10"`
	Text      string `json:"text" binding:"required,min=1,max=2000"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuestionRequest is the payload for adding a question to a module.
type CreateQuestionRequest struct {
	Text       string          `json:"text" binding:"required,min=1,max=2000"`
	Category   string          `json:"category" binding:"omitempty,max=100"`
	Difficulty string          `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
	Options    []OptionRequest `json:"options" binding:"required,min=2,max=10,dive"`
}

// UpdateQuestionRequest is the payload for modifying an existing question.
type UpdateQuestionRequest struct {
	Text       string          `json:"text" binding:"omitempty,min=1,max=2000"`
	Category   string          `json:"category" binding:"omitempty,max=100"`
	Difficulty string          `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	Active     *bool           `json:"active" binding:"omitempty"`
	Options    []OptionRequest `json:"options" binding:"omitempty,min=2,max=10,dive"`
}
