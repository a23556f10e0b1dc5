package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
	"github.com/certpath/certpath-backend/internal/validator"
)

// TestHandler handles test definition endpoints for admins.
type TestHandler struct {
	testService   *service.TestService
	reportService *service.ReportService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService, reportService *service.ReportService) *TestHandler {
	return &TestHandler{testService: testService, reportService: reportService}
}

// List godoc
// GET /api/v1/admin/tests?page=&per_page=
func (h *TestHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	tests, pagination, err := h.testService.List(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"tests": tests}, pagination)
}

// Get godoc
// GET /api/v1/admin/tests/:test_id
func (h *TestHandler) Get(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	test, err := h.testService.GetByID(c.Request.Context(), testID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// Create godoc
// POST /api/v1/admin/tests
func (h *TestHandler) Create(c *gin.Context) {
	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test := &model.Test{
		Title:           req.Title,
		ModuleID:        req.ModuleID,
		QuestionCount:   req.QuestionCount,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		Randomize:       true,
	}
	if req.Randomize != nil {
		test.Randomize = *req.Randomize
	}

	if err := h.testService.Create(c.Request.Context(), test); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": test})
}

// Update godoc
// PUT /api/v1/admin/tests/:test_id
func (h *TestHandler) Update(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.GetByID(c.Request.Context(), testID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.Title != "" {
		test.Title = req.Title
	}
	if req.ModuleID != nil {
		test.ModuleID = req.ModuleID
	}
	if req.QuestionCount != nil {
		test.QuestionCount = *req.QuestionCount
	}
	if req.DurationMinutes != nil {
		test.DurationMinutes = *req.DurationMinutes
	}
	if req.PassingScore != nil {
		test.PassingScore = *req.PassingScore
	}
	if req.Randomize != nil {
		test.Randomize = *req.Randomize
	}

	if err := h.testService.Update(c.Request.Context(), test); err != nil {
		if errors.Is(err, service.ErrTestNotDraft) {
			response.Fail(c, http.StatusConflict, response.ErrTestNotDraft)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// Delete godoc
// DELETE /api/v1/admin/tests/:test_id
func (h *TestHandler) Delete(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Delete(c.Request.Context(), testID); err != nil {
		if errors.Is(err, service.ErrTestNotDraft) {
			response.Fail(c, http.StatusConflict, response.ErrTestNotDraft)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Publish godoc
// POST /api/v1/admin/tests/:test_id/publish
// Requires enough active questions in scope to cover question_count.
func (h *TestHandler) Publish(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Publish(c.Request.Context(), testID); err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotDraft):
			response.Fail(c, http.StatusConflict, response.ErrTestNotDraft)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "published"})
}

// Archive godoc
// POST /api/v1/admin/tests/:test_id/archive
func (h *TestHandler) Archive(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Archive(c.Request.Context(), testID); err != nil {
		if errors.Is(err, service.ErrTestNotPublished) {
			response.Fail(c, http.StatusConflict, response.ErrTestNotPublished)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "archived"})
}

// RefreshCache godoc
// POST /api/v1/admin/tests/:test_id/refresh-cache
// Re-caches the published test's config after a score or duration change.
func (h *TestHandler) RefreshCache(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.RefreshCache(c.Request.Context(), testID); err != nil {
		if errors.Is(err, service.ErrTestNotPublished) {
			response.Fail(c, http.StatusConflict, response.ErrTestNotPublished)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "refreshed"})
}

// Results godoc
// GET /api/v1/admin/tests/:test_id/results?page=&per_page=&passed=
func (h *TestHandler) Results(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	var passed *bool
	if raw := c.Query("passed"); raw != "" {
		val := raw == "true"
		passed = &val
	}

	results, pagination, err := h.reportService.TestResults(c.Request.Context(), testID, page, perPage, passed)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, pagination)
}
