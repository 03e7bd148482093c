package wallet

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to be gated to wallet-holding roles already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	w := r.Group("/wallet")
	{
		w.GET("", h.GetMyWallet)
		w.GET("/transactions", h.ListMyTransactions)
		w.POST("/top-up", h.TopUp)
	}
}
