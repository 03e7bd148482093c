package purchase

import "github.com/gin-gonic/gin"

// RegisterBuyerRoutes expects r to be gated to wallet holders.
func (h *Handler) RegisterBuyerRoutes(r *gin.RouterGroup) {
	p := r.Group("/purchases")
	{
		p.GET("/mine", h.ListMyPurchases)
		p.POST("/arts/:artId", h.BuyArt)
		p.GET("/arts/:artId", h.GetPurchasedArt)
	}
}

// RegisterAdminRoutes expects r to be the admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	p := r.Group("/purchases")
	{
		p.GET("", h.ListPurchases)
		p.GET("/:id", h.GetPurchase)
		p.POST("/:id/approve", h.ApprovePurchase)
		p.POST("/:id/reject", h.RejectPurchase)
	}
}
