package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
	"github.com/certpath/certpath-backend/internal/validator"
)

// CandidateManagementHandler handles admin CRUD for candidate accounts,
// payment recording, and session resets.
type CandidateManagementHandler struct {
	candidateService *service.CandidateService
	authService      *service.AuthService
}

// NewCandidateManagementHandler creates a new CandidateManagementHandler.
func NewCandidateManagementHandler(
	candidateService *service.CandidateService,
	authService *service.AuthService,
) *CandidateManagementHandler {
	return &CandidateManagementHandler{
		candidateService: candidateService,
		authService:      authService,
	}
}

// List godoc
// GET /api/v1/admin/candidates?page=&per_page=&search=
func (h *CandidateManagementHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	search := c.Query("search")

	candidates, pagination, err := h.candidateService.List(c.Request.Context(), search, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"candidates": candidates}, pagination)
}

// Get godoc
// GET /api/v1/admin/candidates/:id
// Returns the candidate account together with their certification profile.
func (h *CandidateManagementHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	candidate, err := h.candidateService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	profile, err := h.candidateService.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"candidate": candidate,
		"profile":   profile,
	})
}

// Create godoc
// POST /api/v1/admin/candidates
func (h *CandidateManagementHandler) Create(c *gin.Context) {
	var req model.CreateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate := &model.Candidate{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: req.Password,
	}

	if err := h.candidateService.Register(c.Request.Context(), candidate); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"candidate": candidate})
}

// Update godoc
// PUT /api/v1/admin/candidates/:id
func (h *CandidateManagementHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.Email != "" {
		candidate.Email = req.Email
	}
	if req.Name != "" {
		candidate.Name = req.Name
	}

	if err := h.candidateService.Update(c.Request.Context(), candidate, false); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// Delete godoc
// DELETE /api/v1/admin/candidates/:id
func (h *CandidateManagementHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.candidateService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// RecordPayment godoc
// PUT /api/v1/admin/candidates/:id/payment
// Moves the candidate's payment status and, optionally, the fee flag that
// gates test access.
func (h *CandidateManagementHandler) RecordPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.candidateService.RecordPayment(
		c.Request.Context(), id, model.PaymentStatus(req.PaymentStatus), req.MembershipFeePaid)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// ResetSession godoc
// POST /api/v1/admin/candidates/:id/reset-session
// Drops the candidate's active login so they can sign in again.
func (h *CandidateManagementHandler) ResetSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.authService.ResetCandidateSession(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
