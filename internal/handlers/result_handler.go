package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// GetAttemptResult returns the summary result of a completed attempt
// GET /api/v1/results/attempt/:id
func (h *ResultHandler) GetAttemptResult(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetAttemptResult(c.Request.Context(), id, userID, isAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDetailedResult returns the per-question breakdown
// GET /api/v1/results/attempt/:id/detailed
func (h *ResultHandler) GetDetailedResult(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetDetailedResult(c.Request.Context(), id, userID, isAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetExamResults lists all completed attempts of an exam
// GET /api/v1/results/exam/:id
func (h *ResultHandler) GetExamResults(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	attempts, err := h.resultService.GetExamResults(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// ExportExamResults streams the exam results as an xlsx workbook
// GET /api/v1/results/exam/:id/export
func (h *ResultHandler) ExportExamResults(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	raw, err := h.resultService.ExportExamResults(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("exam_%d_results.xlsx", id)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}
