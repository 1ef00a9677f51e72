package http

import (
	"net/http"
	"strconv"

	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	completionUseCase usecase.CompletionUseCase
	logger            *logger.Logger
}

func NewCompletionHandler(completionUseCase usecase.CompletionUseCase, logger *logger.Logger) *CompletionHandler {
	return &CompletionHandler{
		completionUseCase: completionUseCase,
		logger:            logger,
	}
}

type SubmitCompletionRequest struct {
	AssignmentID string `json:"assignment_id" binding:"required"`
	Note         string `json:"note"`
	ProofURL     string `json:"proof_url"`
}

// Submit godoc
// @Summary      Submit a chore completion
// @Description  Child marks an assigned chore as done. The completion waits in pending until a parent reviews it. On a bidding-enabled assignment only the current champion may submit.
// @Tags         completions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitCompletionRequest true "Completion data"
// @Success      201  {object}  entity.Completion
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /completions [post]
func (h *CompletionHandler) Submit(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.GetString("user_id")

	var req SubmitCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	completion, err := h.completionUseCase.Submit(familyID, childID, req.AssignmentID, req.Note, req.ProofURL)
	if err != nil {
		h.logger.Error("Failed to submit completion: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

// Approve godoc
// @Summary      Approve a pending completion
// @Description  Parent approves a completion. Credits the reward in one transaction together with any streak bonus; a rivalry win pays the champion bid and doubles the stars.
// @Tags         completions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Completion ID"
// @Success      200  {object}  usecase.ApproveOutcome
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /completions/{id}/approve [post]
func (h *CompletionHandler) Approve(c *gin.Context) {
	familyID := c.GetString("family_id")
	approverID := c.GetString("user_id")
	completionID := c.Param("id")

	outcome, err := h.completionUseCase.Approve(familyID, approverID, completionID)
	if err != nil {
		h.logger.Error("Failed to approve completion %s: %v", completionID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type RejectCompletionRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary      Reject a pending completion
// @Description  Parent rejects a completion. No money or stars move; the streak is unaffected until it expires naturally.
// @Tags         completions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Completion ID"
// @Param        request body RejectCompletionRequest false "Rejection reason"
// @Success      200  {object}  entity.Completion
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /completions/{id}/reject [post]
func (h *CompletionHandler) Reject(c *gin.Context) {
	familyID := c.GetString("family_id")
	approverID := c.GetString("user_id")
	completionID := c.Param("id")

	var req RejectCompletionRequest
	_ = c.ShouldBindJSON(&req)

	completion, err := h.completionUseCase.Reject(familyID, approverID, completionID, req.Reason)
	if err != nil {
		h.logger.Error("Failed to reject completion %s: %v", completionID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

// Get godoc
// @Summary      Get completion by ID
// @Tags         completions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Completion ID"
// @Success      200  {object}  entity.Completion
// @Failure      404  {object}  map[string]string
// @Router       /completions/{id} [get]
func (h *CompletionHandler) Get(c *gin.Context) {
	familyID := c.GetString("family_id")
	completionID := c.Param("id")

	completion, err := h.completionUseCase.Get(familyID, completionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

// ListByChild godoc
// @Summary      List a child's completions
// @Tags         completions
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Param        limit query int false "Number of completions to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /children/{child_id}/completions [get]
func (h *CompletionHandler) ListByChild(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")
	limit := 20
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	completions, err := h.completionUseCase.ListByChild(familyID, childID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list completions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch completions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions, "count": len(completions), "offset": offset})
}

// ListPending godoc
// @Summary      List pending completions
// @Description  Parent review queue: all completions in the family awaiting a decision, oldest first.
// @Tags         completions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /completions/pending [get]
func (h *CompletionHandler) ListPending(c *gin.Context) {
	familyID := c.GetString("family_id")

	completions, err := h.completionUseCase.ListPending(familyID)
	if err != nil {
		h.logger.Error("Failed to list pending completions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending completions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions, "count": len(completions)})
}
