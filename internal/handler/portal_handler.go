package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/middleware"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
	"github.com/certpath/certpath-backend/internal/validator"
)

// PortalHandler handles candidate-facing endpoints: the test catalog,
// attempt taking, and certification status.
type PortalHandler struct {
	candidateService   *service.CandidateService
	testService        *service.TestService
	attemptService     *service.AttemptService
	certificateService *service.CertificateService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(
	candidateService *service.CandidateService,
	testService *service.TestService,
	attemptService *service.AttemptService,
	certificateService *service.CertificateService,
) *PortalHandler {
	return &PortalHandler{
		candidateService:   candidateService,
		testService:        testService,
		attemptService:     attemptService,
		certificateService: certificateService,
	}
}

// GetProfile godoc
// GET /api/v1/candidate/profile
// Returns the candidate's certification profile: payment, test, and
// certificate status.
func (h *PortalHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.candidateService.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// ListTests godoc
// GET /api/v1/candidate/tests
// Returns the catalog of published tests.
func (h *PortalHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListPublished(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// StartAttempt godoc
// POST /api/v1/candidate/attempts
// Assembles a fresh attempt on a published test. Fails with 402 when the
// membership fee is unpaid and 409 when an attempt is already ongoing.
func (h *PortalHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.attemptService.Start(c.Request.Context(), claims.UserID, req.TestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentRequired):
			response.Fail(c, http.StatusPaymentRequired, response.ErrPaymentRequired)
		case errors.Is(err, service.ErrTestNotAvailable):
			response.Fail(c, http.StatusBadRequest, response.ErrTestNotAvailable)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
		case errors.Is(err, repository.ErrOngoingAttemptExists):
			response.Fail(c, http.StatusConflict, response.ErrAttemptInProgress)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": state})
}

// GetAttempt godoc
// GET /api/v1/candidate/attempts/current
// Returns the ongoing attempt for resume: frozen questions without
// correctness flags, saved answers, position, and remaining time.
func (h *PortalHandler) GetAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	state, err := h.attemptService.GetState(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": state})
}

// UpdateAttempt godoc
// PATCH /api/v1/candidate/attempts/current
// Saves answers, navigation position, remaining time, and the started
// flag. Version conflicts surface as 409.
func (h *PortalHandler) UpdateAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.attemptService.Update(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		case errors.Is(err, service.ErrUnknownQuestion), errors.Is(err, service.ErrUnknownOption):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		case errors.Is(err, repository.ErrStaleAttemptVersion):
			response.Fail(c, http.StatusConflict, response.ErrStaleVersion)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": state})
}

// SubmitAttempt godoc
// POST /api/v1/candidate/attempts/current/submit
// Scores and finalizes the ongoing attempt. Submitting again returns the
// already finalized result.
func (h *PortalHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Submit(c.Request.Context(), claims.UserID, req.TimedOut)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetHistory godoc
// GET /api/v1/candidate/attempts
// Returns the candidate's finalized attempts, newest first.
func (h *PortalHandler) GetHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.attemptService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// GetCertificate godoc
// GET /api/v1/candidate/certificate
// Returns the candidate's latest certificate, if one was issued.
func (h *PortalHandler) GetCertificate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	cert, err := h.certificateService.GetByCandidate(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"certificate": cert})
}

// VerifyCertificate godoc
// GET /api/v1/certificates/:serial
// Public verification endpoint: resolves a certificate by serial.
func (h *PortalHandler) VerifyCertificate(c *gin.Context) {
	serial, err := uuid.Parse(c.Param("serial"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cert, err := h.certificateService.VerifyBySerial(c.Request.Context(), serial)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"certificate": cert})
}
