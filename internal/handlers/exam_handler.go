package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

// CreateExam creates a new exam
// POST /api/v1/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exam)
}

// GetExam returns an exam. Students get the taking view with answers hidden;
// admins get the full record.
// GET /api/v1/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var (
		exam *models.Exam
		err  error
	)
	if isAdmin(c) {
		exam, err = h.examService.GetByID(c.Request.Context(), id)
	} else {
		exam, err = h.examService.GetForStudent(c.Request.Context(), id)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// ListExams lists exams with optional filters
// GET /api/v1/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	filters := repositories.ExamFilters{
		CategoryID: queryUintPtr(c, "category"),
		Limit:      queryInt(c, "limit", 20),
		Offset:     queryInt(c, "offset", 0),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filters.IsActive = &active
	}
	if !isAdmin(c) {
		// Students never see deactivated exams.
		active := true
		filters.IsActive = &active
	}

	exams, total, err := h.examService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: exams, Total: total})
}

// ListUpcoming lists scheduled exams that have not opened yet
// GET /api/v1/exams/upcoming
func (h *ExamHandler) ListUpcoming(c *gin.Context) {
	exams, err := h.examService.ListUpcoming(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exams)
}

// ListActive lists exams currently open for taking
// GET /api/v1/exams/active
func (h *ExamHandler) ListActive(c *gin.Context) {
	exams, err := h.examService.ListActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exams)
}

// UpdateExam updates exam fields
// PUT /api/v1/exams/:id
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// DeleteExam soft-deletes an exam without attempts
// DELETE /api/v1/exams/:id
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam deleted"})
}
