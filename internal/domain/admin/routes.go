package admin

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// artiste directory
	admin.GET("/artistes", h.ListArtistes)
	admin.GET("/artistes/:id", h.GetArtiste)

	// membership access
	admin.PATCH("/artistes/:id/access", h.EditArtisteAccess)
}
