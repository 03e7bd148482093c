package catalog

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts visitor browsing.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/countries", h.ListCountries)
	r.GET("/art-types", h.ListArtTypes)
	r.GET("/countries/:countryId/categories/:categoryId/arts", h.ListByCountryAndType)
	r.GET("/arts", h.ListArts)
	r.GET("/arts/:id", h.GetArt)
}

// RegisterArtisteRoutes expects r to be gated to artistes already.
func (h *Handler) RegisterArtisteRoutes(r *gin.RouterGroup) {
	arts := r.Group("/arts")
	{
		arts.GET("/mine", h.ListMyArts)
		arts.POST("", h.CreateArt)
		arts.PUT("/:id", h.UpdateArt)
		arts.DELETE("/:id", h.DeleteArt)
	}
}

// RegisterAdminRoutes expects r to be the admin-gated group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	arts := r.Group("/arts")
	{
		arts.GET("", h.AdminListArts)
		arts.GET("/:id", h.AdminGetArt)
		arts.POST("/:id/approve", h.ApproveArt)
	}
}
