package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService, logger utils.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
	}
}

// Global returns the top students by total points
// GET /api/v1/leaderboard/global
func (h *LeaderboardHandler) Global(c *gin.Context) {
	entries, err := h.leaderboardService.Global(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ByExam returns the standings of one exam
// GET /api/v1/leaderboard/exam/:id
func (h *LeaderboardHandler) ByExam(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.leaderboardService.ByExam(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
