package collaboration

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to be gated to artistes already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/collaborations")
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/mine", h.ListMine)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Edit)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/join", h.Join)
	}
}
