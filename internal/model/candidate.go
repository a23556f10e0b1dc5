package model

import (
	"time"
)

// Candidate represents a certification candidate account.
type Candidate struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterCandidateRequest is the public self-registration payload.
type RegisterCandidateRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// CreateCandidateRequest is the admin-facing candidate creation payload.
type CreateCandidateRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateCandidateRequest is the admin-facing candidate update payload.
type UpdateCandidateRequest struct {
	Email string `json:"email" binding:"omitempty,email,max=255"`
	Name  string `json:"name" binding:"omitempty,min=2,max=255"`
}

// CandidateLoginRequest is the candidate login payload.
type CandidateLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
