package chat

import "github.com/gin-gonic/gin"

// RegisterArtisteRoutes expects r to be gated to artistes already.
func (h *Handler) RegisterArtisteRoutes(r *gin.RouterGroup) {
	r.GET("/collaborations/:id/messages", h.GetCollaborationThread)
	r.POST("/collaborations/:id/messages", h.SendInCollaboration)

	admin := r.Group("/messages/admin")
	{
		admin.GET("", h.GetMyAdminThread)
		admin.POST("", h.SendToAdmin)
	}
}

// RegisterAdminRoutes expects r to be the admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	msgs := r.Group("/messages")
	{
		msgs.GET("", h.ListAdminThreads)
		msgs.GET("/:artisteId", h.GetAdminThread)
		msgs.POST("/:artisteId", h.ReplyToArtiste)
	}
}
