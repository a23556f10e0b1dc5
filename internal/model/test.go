package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStatus enumerates the possible states of a certification test.
type TestStatus string

const (
	TestStatusDraft     TestStatus = "DRAFT"
	TestStatusPublished TestStatus = "PUBLISHED"
	TestStatusArchived  TestStatus = "ARCHIVED"
)

// Test represents a certification test configuration. The passing_score
// column is the single source of truth for the pass threshold.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	ModuleID        *uuid.UUID `json:"module_id,omitempty"`
	QuestionCount   int        `json:"question_count"`
	DurationMinutes int        `json:"duration_minutes"`
	PassingScore    int        `json:"passing_score"`
	Randomize       bool       `json:"randomize"`
	Status          TestStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TestConfig is the Redis-cached slice of a test used on the resume fast path.
type TestConfig struct {
	TestID          uuid.UUID `json:"test_id"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	PassingScore    int       `json:"passing_score"`
}

// CreateTestRequest is the payload for creating a new test.
type CreateTestRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=255"`
	ModuleID        *uuid.UUID `json:"module_id" binding:"omitempty"`
	QuestionCount   int        `json:"question_count" binding:"required,min=1,max=200"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	PassingScore    int        `json:"passing_score" binding:"required,min=1,max=100"`
	Randomize       *bool      `json:"randomize" binding:"omitempty"`
}

// UpdateTestRequest is the payload for updating an existing draft test.
type UpdateTestRequest struct {
	Title           string     `json:"title" binding:"omitempty,min=3,max=255"`
	ModuleID        *uuid.UUID `json:"module_id" binding:"omitempty"`
	QuestionCount   *int       `json:"question_count" binding:"omitempty,min=1,max=200"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	PassingScore    *int       `json:"passing_score" binding:"omitempty,min=1,max=100"`
	Randomize       *bool      `json:"randomize" binding:"omitempty"`
}
