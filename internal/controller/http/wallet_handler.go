package http

import (
	"net/http"
	"strconv"

	"chore-clash/internal/usecase"
	"chore-clash/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// GetWallet godoc
// @Summary      Get a child's wallet
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Success      200  {object}  entity.Wallet
// @Failure      404  {object}  map[string]string
// @Router       /children/{child_id}/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")

	wallet, err := h.walletUseCase.GetWallet(familyID, childID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

type TopUpRequest struct {
	AmountPence int `json:"amount_pence" binding:"required,gt=0"`
}

// TopUp godoc
// @Summary      Top up a child's wallet
// @Description  Parent credits pocket money outside the chore flow.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Param        request body TopUpRequest true "Top-up amount"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /children/{child_id}/wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.TopUp(familyID, childID, req.AmountPence)
	if err != nil {
		h.logger.Error("Failed to top up wallet for child %s: %v", childID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// Transactions godoc
// @Summary      List wallet transactions
// @Description  Full ledger for the child's wallet, newest first.
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Param        limit query int false "Number of transactions to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /children/{child_id}/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
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

	transactions, err := h.walletUseCase.Transactions(familyID, childID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions for child %s: %v", childID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions), "offset": offset})
}

type StarPurchaseRequest struct {
	Stars int `json:"stars" binding:"required,gt=0"`
}

// RequestStarPurchase godoc
// @Summary      Request a star purchase
// @Description  Child converts pocket money into stars. The money is debited immediately; the stars arrive only once a parent approves.
// @Tags         star-purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body StarPurchaseRequest true "Stars to buy"
// @Success      201  {object}  usecase.StarPurchaseOutcome
// @Failure      400  {object}  map[string]string
// @Failure      402  {object}  map[string]string
// @Router       /star-purchases [post]
func (h *WalletHandler) RequestStarPurchase(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.GetString("user_id")

	var req StarPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.walletUseCase.RequestStarPurchase(familyID, childID, req.Stars)
	if err != nil {
		h.logger.Error("Failed to request star purchase for child %s: %v", childID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

// ApproveStarPurchase godoc
// @Summary      Approve a star purchase
// @Description  Parent approves a pending star purchase: the stars are credited; the money stays debited.
// @Tags         star-purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Star purchase ID"
// @Success      200  {object}  usecase.StarPurchaseOutcome
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /star-purchases/{id}/approve [post]
func (h *WalletHandler) ApproveStarPurchase(c *gin.Context) {
	familyID := c.GetString("family_id")
	approverID := c.GetString("user_id")
	purchaseID := c.Param("id")

	outcome, err := h.walletUseCase.ApproveStarPurchase(familyID, approverID, purchaseID)
	if err != nil {
		h.logger.Error("Failed to approve star purchase %s: %v", purchaseID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// RejectStarPurchase godoc
// @Summary      Reject a star purchase
// @Description  Parent rejects a pending star purchase: the held money is refunded; no stars move.
// @Tags         star-purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Star purchase ID"
// @Success      200  {object}  usecase.StarPurchaseOutcome
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /star-purchases/{id}/reject [post]
func (h *WalletHandler) RejectStarPurchase(c *gin.Context) {
	familyID := c.GetString("family_id")
	approverID := c.GetString("user_id")
	purchaseID := c.Param("id")

	outcome, err := h.walletUseCase.RejectStarPurchase(familyID, approverID, purchaseID)
	if err != nil {
		h.logger.Error("Failed to reject star purchase %s: %v", purchaseID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ListStarPurchases godoc
// @Summary      List a child's star purchases
// @Tags         star-purchases
// @Produce      json
// @Security     BearerAuth
// @Param        child_id path string true "Child ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /children/{child_id}/star-purchases [get]
func (h *WalletHandler) ListStarPurchases(c *gin.Context) {
	familyID := c.GetString("family_id")
	childID := c.Param("child_id")

	purchases, err := h.walletUseCase.ListStarPurchases(familyID, childID)
	if err != nil {
		h.logger.Error("Failed to list star purchases for child %s: %v", childID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch star purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases, "count": len(purchases)})
}

// ListPendingStarPurchases godoc
// @Summary      List pending star purchases
// @Description  Parent review queue for star purchases awaiting a decision.
// @Tags         star-purchases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /star-purchases/pending [get]
func (h *WalletHandler) ListPendingStarPurchases(c *gin.Context) {
	familyID := c.GetString("family_id")

	purchases, err := h.walletUseCase.ListPendingStarPurchases(familyID)
	if err != nil {
		h.logger.Error("Failed to list pending star purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending star purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases, "count": len(purchases)})
}
