package model

import (
	"time"
)

// Permission codes embedded in admin JWT claims.
type Permission string

const (
	PermissionCandidatesRead       Permission = "candidates:read"
	PermissionCandidatesWrite      Permission = "candidates:write"
	PermissionCandidatesPayment    Permission = "candidates:payment"
	PermissionQuestionsRead        Permission = "questions:read"
	PermissionQuestionsWrite       Permission = "questions:write"
	PermissionTestsRead            Permission = "tests:read"
	PermissionTestsWrite           Permission = "tests:write"
	PermissionTestsPublish         Permission = "tests:publish"
	PermissionResultsRead          Permission = "results:read"
	PermissionCertificatesRead     Permission = "certificates:read"
	PermissionCandidatesResetLogin Permission = "candidates:reset_session"
)

// Role groups permissions for admin users.
type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleWithPermissions pairs a role with its permission codes.
type RoleWithPermissions struct {
	Role        *Role    `json:"role"`
	Permissions []string `json:"permissions"`
}
