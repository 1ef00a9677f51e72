package http

import (
	"net/http"

	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BonusHandler struct {
	bonusUseCase usecase.BonusUseCase
	logger       *logger.Logger
}

func NewBonusHandler(bonusUseCase usecase.BonusUseCase, logger *logger.Logger) *BonusHandler {
	return &BonusHandler{
		bonusUseCase: bonusUseCase,
		logger:       logger,
	}
}

// RunMonthlySweep godoc
// @Summary      Run the monthly bonus sweep
// @Description  Awards monthly completion-count bonuses to every child in the family who crossed a threshold this month. Safe to run repeatedly; already-awarded bonuses are skipped.
// @Tags         bonuses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /bonuses/monthly-sweep [post]
func (h *BonusHandler) RunMonthlySweep(c *gin.Context) {
	familyID := c.GetString("family_id")

	awarded, err := h.bonusUseCase.RunMonthlySweep(familyID)
	if err != nil {
		h.logger.Error("Monthly bonus sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Monthly sweep complete", "awarded": awarded})
}

// RunPerfectWeekSweep godoc
// @Summary      Run the perfect-week bonus sweep
// @Description  Awards the perfect-week bonus to children who completed an approved chore on every day of the previous week. Idempotent per child per week.
// @Tags         bonuses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /bonuses/perfect-week-sweep [post]
func (h *BonusHandler) RunPerfectWeekSweep(c *gin.Context) {
	familyID := c.GetString("family_id")

	awarded, err := h.bonusUseCase.RunPerfectWeekSweep(familyID)
	if err != nil {
		h.logger.Error("Perfect-week bonus sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Perfect-week sweep complete", "awarded": awarded})
}
