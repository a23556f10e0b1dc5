package model

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is issued for a passing attempt, inside the same transaction
// that finalizes the attempt and updates the profile.
type Certificate struct {
	Serial      uuid.UUID `json:"serial"`
	CandidateID int       `json:"candidate_id"`
	AttemptID   uuid.UUID `json:"attempt_id"`
	TestID      uuid.UUID `json:"test_id"`
	Score       int       `json:"score"`
	IssuedAt    time.Time `json:"issued_at"`
}
