package http

import (
	"net/http"

	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	biddingUseCase usecase.BiddingUseCase
	logger         *logger.Logger
}

func NewBidHandler(biddingUseCase usecase.BiddingUseCase, logger *logger.Logger) *BidHandler {
	return &BidHandler{
		biddingUseCase: biddingUseCase,
		logger:         logger,
	}
}

type PlaceBidRequest struct {
	AmountPence int `json:"amount_pence" binding:"required,gt=0"`
}

// PlaceBid godoc
// @Summary      Place a bid on an assignment
// @Description  Child offers to do a bidding-enabled chore for the stated amount. The lowest bid wins; ties go to whoever bid first.
// @Tags         bids
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Assignment ID"
// @Param        request body PlaceBidRequest true "Bid amount"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /assignments/{id}/bids [post]
func (h *BidHandler) PlaceBid(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.GetString("user_id")
	assignmentID := c.Param("id")

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, disrupted, err := h.biddingUseCase.PlaceBid(familyID, childID, assignmentID, req.AmountPence)
	if err != nil {
		h.logger.Error("Failed to place bid on assignment %s: %v", assignmentID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bid": bid, "champion_changed": disrupted})
}

// ListBids godoc
// @Summary      List bids on an assignment
// @Tags         bids
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Assignment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /assignments/{id}/bids [get]
func (h *BidHandler) ListBids(c *gin.Context) {
	familyID := c.GetString("family_id")
	assignmentID := c.Param("id")

	bids, err := h.biddingUseCase.ListBids(familyID, assignmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids, "count": len(bids)})
}

// Champion godoc
// @Summary      Get the current champion bid
// @Description  Returns the bid currently winning the assignment, recomputed from the full bid list on every call.
// @Tags         bids
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Assignment ID"
// @Success      200  {object}  entity.Bid
// @Failure      404  {object}  map[string]string
// @Router       /assignments/{id}/champion [get]
func (h *BidHandler) Champion(c *gin.Context) {
	familyID := c.GetString("family_id")
	assignmentID := c.Param("id")

	champion, err := h.biddingUseCase.Champion(familyID, assignmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, champion)
}
