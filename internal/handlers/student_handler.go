package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

// StudentHandler serves the student's own surface: profile, attempt
// lifecycle and analytics.
type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
	attemptService services.AttemptService
}

func NewStudentHandler(studentService services.StudentService, attemptService services.AttemptService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
		attemptService: attemptService,
	}
}

// Me returns the caller's student profile
// GET /api/v1/students/me
func (h *StudentHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// UpdateProfile updates the caller's student profile
// PUT /api/v1/students/me
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	student, err := h.studentService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// StartExam opens a new attempt
// POST /api/v1/students/start-exam
func (h *StudentHandler) StartExam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.StartExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

type attemptIDRequest struct {
	AttemptID uint `json:"attempt_id" binding:"required"`
}

// PauseExam pauses an in-progress attempt
// POST /api/v1/students/pause-exam
func (h *StudentHandler) PauseExam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req attemptIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.attemptService.Pause(c.Request.Context(), req.AttemptID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Attempt paused"})
}

// ResumeExam resumes a paused attempt
// POST /api/v1/students/resume-exam
func (h *StudentHandler) ResumeExam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req attemptIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.attemptService.Resume(c.Request.Context(), req.AttemptID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Attempt resumed"})
}

// SubmitExam grades and completes an attempt
// POST /api/v1/students/submit-exam
func (h *StudentHandler) SubmitExam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	resp, err := h.attemptService.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam submitted successfully", Data: resp})
}

// MyAttempts lists the caller's attempts
// GET /api/v1/students/my-attempts
func (h *StudentHandler) MyAttempts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempts, err := h.attemptService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// GetAttempt returns one attempt, owner or admin only
// GET /api/v1/students/attempts/:id
func (h *StudentHandler) GetAttempt(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), id, userID, isAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Analytics summarizes the caller's completed attempts
// GET /api/v1/students/analytics
func (h *StudentHandler) Analytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	analytics, err := h.studentService.GetAnalytics(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
