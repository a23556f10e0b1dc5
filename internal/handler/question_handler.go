package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
	"github.com/certpath/certpath-backend/internal/validator"
)

// QuestionHandler handles certification module and question bank endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ─── Modules ────────────────────────────────────────────────────────

// ListModules godoc
// GET /api/v1/admin/modules
func (h *QuestionHandler) ListModules(c *gin.Context) {
	modules, err := h.questionService.ListModules(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

// CreateModule godoc
// POST /api/v1/admin/modules
func (h *QuestionHandler) CreateModule(c *gin.Context) {
	var req model.CreateModuleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	module := &model.CertModule{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.questionService.CreateModule(c.Request.Context(), module); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"module": module})
}

// UpdateModule godoc
// PUT /api/v1/admin/modules/:module_id
func (h *QuestionHandler) UpdateModule(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateModuleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	module, err := h.questionService.GetModule(c.Request.Context(), moduleID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.Name != "" {
		module.Name = req.Name
	}
	if req.Description != "" {
		module.Description = req.Description
	}

	if err := h.questionService.UpdateModule(c.Request.Context(), module); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"module": module})
}

// DeleteModule godoc
// DELETE /api/v1/admin/modules/:module_id
func (h *QuestionHandler) DeleteModule(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.DeleteModule(c.Request.Context(), moduleID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ─── Questions ──────────────────────────────────────────────────────

// ListQuestions godoc
// GET /api/v1/admin/questions?module_id=&include_inactive=
// Inactive questions only appear when explicitly requested.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var moduleID *uuid.UUID
	if raw := c.Query("module_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		moduleID = &id
	}

	includeInactive := c.Query("include_inactive") == "true"

	questions, err := h.questionService.ListQuestions(c.Request.Context(), moduleID, includeInactive)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// GetQuestion godoc
// GET /api/v1/admin/questions/:question_id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// CreateQuestion godoc
// POST /api/v1/admin/modules/:module_id/questions
// The option set must carry exactly one correct answer.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := &model.Question{
		ModuleID:   moduleID,
		Text:       req.Text,
		Category:   req.Category,
		Difficulty: model.Difficulty(req.Difficulty),
		Active:     true,
		Options:    optionsFromRequest(req.Options),
	}

	if err := h.questionService.CreateQuestion(c.Request.Context(), question); err != nil {
		if isOptionSetError(err) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"options": err.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/admin/questions/:question_id
// Attempts already in flight keep their frozen snapshot.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.Text != "" {
		question.Text = req.Text
	}
	if req.Category != "" {
		question.Category = req.Category
	}
	if req.Difficulty != "" {
		question.Difficulty = model.Difficulty(req.Difficulty)
	}
	if req.Active != nil {
		question.Active = *req.Active
	}
	if req.Options != nil {
		question.Options = optionsFromRequest(req.Options)
	}

	if err := h.questionService.UpdateQuestion(c.Request.Context(), question); err != nil {
		if isOptionSetError(err) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"options": err.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeactivateQuestion godoc
// DELETE /api/v1/admin/questions/:question_id
// Soft delete: the question drops out of future assemblies only.
func (h *QuestionHandler) DeactivateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.DeactivateQuestion(c.Request.Context(), questionID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func optionsFromRequest(reqs []model.OptionRequest) []model.Option {
	options := make([]model.Option, len(reqs))
	for i, o := range reqs {
		options[i] = model.Option{
			Label:     o.Label,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		}
	}
	return options
}

func isOptionSetError(err error) bool {
	return errors.Is(err, model.ErrNoCorrectOption) ||
		errors.Is(err, model.ErrMultipleCorrectOptions) ||
		errors.Is(err, model.ErrDuplicateOptionLabel)
}
