package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type AchievementHandler struct {
	BaseHandler
	achievementService services.AchievementService
}

func NewAchievementHandler(achievementService services.AchievementService, logger utils.Logger) *AchievementHandler {
	return &AchievementHandler{
		BaseHandler:        NewBaseHandler(logger),
		achievementService: achievementService,
	}
}

// ListCatalog returns every defined achievement
// GET /api/v1/achievements
func (h *AchievementHandler) ListCatalog(c *gin.Context) {
	achievements, err := h.achievementService.ListCatalog(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// ListMine returns the caller's earned achievements
// GET /api/v1/achievements/my-achievements
func (h *AchievementHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	earned, err := h.achievementService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, earned)
}

// CreateAchievement adds a catalog entry
// POST /api/v1/achievements
func (h *AchievementHandler) CreateAchievement(c *gin.Context) {
	var req services.CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	achievement, err := h.achievementService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, achievement)
}

// UpdateAchievement edits a catalog entry
// PUT /api/v1/achievements/:id
func (h *AchievementHandler) UpdateAchievement(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	achievement, err := h.achievementService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievement)
}

// DeleteAchievement removes a catalog entry
// DELETE /api/v1/achievements/:id
func (h *AchievementHandler) DeleteAchievement(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.achievementService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Achievement deleted"})
}
