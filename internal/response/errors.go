package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrPermissionDenied    ErrCode = "PERMISSION_DENIED"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrAdminAccessOnly     ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Certification-specific ────────────────────────────────────────
	ErrTestNotAvailable        ErrCode = "TEST_NOT_AVAILABLE"
	ErrTestNotPublished        ErrCode = "TEST_NOT_PUBLISHED"
	ErrTestNotDraft            ErrCode = "TEST_NOT_DRAFT"
	ErrNoQuestions             ErrCode = "NO_QUESTIONS"
	ErrPaymentRequired         ErrCode = "PAYMENT_REQUIRED"
	ErrAttemptInProgress       ErrCode = "ATTEMPT_IN_PROGRESS"
	ErrAttemptNotFound         ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptAlreadySubmitted ErrCode = "ATTEMPT_ALREADY_SUBMITTED"
	ErrStaleVersion            ErrCode = "STALE_VERSION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "This session is no longer valid. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrPermissionDenied:
		return "You do not have permission to perform this action."
	case ErrCandidateAccessOnly:
		return "This endpoint is restricted to candidate accounts."
	case ErrAdminAccessOnly:
		return "This endpoint is restricted to administrator accounts."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "One or more fields failed validation."
	case ErrInvalidID:
		return "The supplied identifier is not valid."
	case ErrInvalidPayload:
		return "The request payload could not be processed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The request conflicts with the current state of the resource."

	// ─── Certification-specific ────────────────────────────────────────
	case ErrTestNotAvailable:
		return "The test is not available."
	case ErrTestNotPublished:
		return "The test has not been published."
	case ErrTestNotDraft:
		return "Only draft tests can be modified."
	case ErrNoQuestions:
		return "No questions are available for this test."
	case ErrPaymentRequired:
		return "The membership fee must be paid before starting a test."
	case ErrAttemptInProgress:
		return "A test attempt is already in progress."
	case ErrAttemptNotFound:
		return "No ongoing test attempt was found."
	case ErrAttemptAlreadySubmitted:
		return "This attempt has already been submitted."
	case ErrStaleVersion:
		return "The attempt was updated elsewhere. Please reload and try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	}

	return "An unexpected error occurred."
}
