package http

import (
	"net/http"

	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type StreakHandler struct {
	streakUseCase usecase.StreakUseCase
	logger        *logger.Logger
}

func NewStreakHandler(streakUseCase usecase.StreakUseCase, logger *logger.Logger) *StreakHandler {
	return &StreakHandler{
		streakUseCase: streakUseCase,
		logger:        logger,
	}
}

// ChildSummary godoc
// @Summary      Get a child's streak summary
// @Description  Current and best streak across all the child's chores, with the star bonus percentage the current streak earns.
// @Tags         streaks
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Success      200  {object}  entity.StreakSummary
// @Failure      404  {object}  map[string]string
// @Router       /children/{child_id}/streak [get]
func (h *StreakHandler) ChildSummary(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")

	summary, err := h.streakUseCase.ChildSummary(familyID, childID)
	if err != nil {
		h.logger.Error("Failed to build streak summary for child %s: %v", childID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ChoreStreaks godoc
// @Summary      List per-chore streaks for a child
// @Tags         streaks
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /children/{child_id}/streaks [get]
func (h *StreakHandler) ChoreStreaks(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")

	streaks, err := h.streakUseCase.ChoreStreaks(familyID, childID)
	if err != nil {
		h.logger.Error("Failed to list streaks for child %s: %v", childID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch streaks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streaks": streaks, "count": len(streaks)})
}
