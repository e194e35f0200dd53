package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// CreateQuestion creates a question, attached to an exam or in the bank
// POST /api/v1/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestion returns a question including its answer key (admin only route)
// GET /api/v1/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ListQuestions lists questions filtered by exam, category or difficulty
// GET /api/v1/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		ExamID:     queryUintPtr(c, "exam"),
		CategoryID: queryUintPtr(c, "category"),
		Limit:      queryInt(c, "limit", 50),
		Offset:     queryInt(c, "offset", 0),
	}
	if raw := c.Query("difficulty"); raw != "" {
		d := models.DifficultyLevel(raw)
		filters.Difficulty = &d
	}

	questions, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// ListBank lists unattached questions
// GET /api/v1/questions/bank
func (h *QuestionHandler) ListBank(c *gin.Context) {
	filters := repositories.QuestionFilters{
		BankOnly:   true,
		CategoryID: queryUintPtr(c, "category"),
		Limit:      queryInt(c, "limit", 50),
		Offset:     queryInt(c, "offset", 0),
	}

	questions, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion updates question fields
// PUT /api/v1/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question
// DELETE /api/v1/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}
