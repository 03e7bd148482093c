package wallet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"artnexus/internal/pkg/response"
)

type Handler struct {
	service  *Service
	currency string
}

func NewHandler(service *Service, currency string) *Handler {
	return &Handler{service: service, currency: currency}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) GetMyWallet(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	wallet, err := h.service.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": wallet.Balance.StringFixed(2), "currency": h.currency})
}

// TopUp credits the caller's wallet. Non-positive amounts are INVALID_AMOUNT.
func (h *Handler) TopUp(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	wallet, txn, err := h.service.TopUp(c.Request.Context(), userID, req.Amount)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"balance":     wallet.Balance.StringFixed(2),
		"currency":    h.currency,
		"transaction": txn,
	})
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	txns, err := h.service.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}
