package http

import (
	"net/http"

	"chore-clash/internal/entity"
	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChoreHandler struct {
	choreUseCase usecase.ChoreUseCase
	logger       *logger.Logger
}

func NewChoreHandler(choreUseCase usecase.ChoreUseCase, logger *logger.Logger) *ChoreHandler {
	return &ChoreHandler{
		choreUseCase: choreUseCase,
		logger:       logger,
	}
}

type CreateChoreRequest struct {
	Title        string `json:"title" binding:"required"`
	RewardPence  int    `json:"reward_pence" binding:"required,gt=0"`
	StarOverride *int   `json:"star_override"`
	Frequency    string `json:"frequency" binding:"required,oneof=daily weekly once"`
}

// CreateChore godoc
// @Summary      Create a chore
// @Tags         chores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateChoreRequest true "Chore data"
// @Success      201  {object}  entity.Chore
// @Failure      400  {object}  map[string]string
// @Router       /chores [post]
func (h *ChoreHandler) CreateChore(c *gin.Context) {
	familyID := c.GetString("family_id")

	var req CreateChoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chore, err := h.choreUseCase.CreateChore(familyID, req.Title, req.RewardPence, req.StarOverride, entity.ChoreFrequency(req.Frequency))
	if err != nil {
		h.logger.Error("Failed to create chore: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chore)
}

// ListChores godoc
// @Summary      List the family's chores
// @Tags         chores
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Only active chores"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /chores [get]
func (h *ChoreHandler) ListChores(c *gin.Context) {
	familyID := c.GetString("family_id")
	activeOnly := c.Query("active") == "true"

	chores, err := h.choreUseCase.ListChores(familyID, activeOnly)
	if err != nil {
		h.logger.Error("Failed to list chores: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chores": chores, "count": len(chores)})
}

type CreateAssignmentRequest struct {
	ChoreID        string `json:"chore_id" binding:"required"`
	ChildID        string `json:"child_id"`
	BiddingEnabled bool   `json:"bidding_enabled"`
}

// CreateAssignment godoc
// @Summary      Assign a chore
// @Description  Assign a chore to a named child, or leave child_id empty to open it to the whole family. bidding_enabled turns the assignment into a showdown.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateAssignmentRequest true "Assignment data"
// @Success      201  {object}  entity.Assignment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /assignments [post]
func (h *ChoreHandler) CreateAssignment(c *gin.Context) {
	familyID := c.GetString("family_id")

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.choreUseCase.CreateAssignment(familyID, req.ChoreID, req.ChildID, req.BiddingEnabled)
	if err != nil {
		h.logger.Error("Failed to create assignment: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments godoc
// @Summary      List the family's assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /assignments [get]
func (h *ChoreHandler) ListAssignments(c *gin.Context) {
	familyID := c.GetString("family_id")

	assignments, err := h.choreUseCase.ListAssignments(familyID)
	if err != nil {
		h.logger.Error("Failed to list assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments, "count": len(assignments)})
}

// DeleteAssignment godoc
// @Summary      Delete an assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Assignment ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /assignments/{id} [delete]
func (h *ChoreHandler) DeleteAssignment(c *gin.Context) {
	familyID := c.GetString("family_id")
	assignmentID := c.Param("id")

	if err := h.choreUseCase.DeleteAssignment(familyID, assignmentID); err != nil {
		h.logger.Error("Failed to delete assignment %s: %v", assignmentID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}
